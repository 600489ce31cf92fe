package models

import (
	"fmt"
	"strings"
	"time"
)

// Возможные статусы подписки.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusCancelled = "cancelled"
)

// Возможные периодичности списаний.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// renewalOffsetDays задаёт смещение даты продления в днях для каждой периодичности.
var renewalOffsetDays = map[string]int{
	FrequencyDaily:   1,
	FrequencyWeekly:  7,
	FrequencyMonthly: 30,
	FrequencyYearly:  365,
}

var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "RUB": true,
}

var validCategories = map[string]bool{
	"food": true, "entertainment": true, "shopping": true,
	"health": true, "education": true, "other": true,
}

var validStatuses = map[string]bool{
	StatusActive: true, StatusInactive: true, StatusCancelled: true,
}

// Subscription представляет собой основную модель подписки,
// используемую в бизнес-логике и хранилище.
type Subscription struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
	Frequency     string    `json:"frequency"`
	Category      string    `json:"category"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	RenewalDate   time.Time `json:"renewal_date"`
	UserUID       string    `json:"user_uid"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DummySubscription используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Subscription.
// Даты приходят строками в формате 2006-01-02, чтобы их можно было
// валидировать и парсить вручную.
type DummySubscription struct {
	Name          string  `json:"name" validate:"required,min=3,max=20"`
	Price         float64 `json:"price" validate:"gte=0"`
	Currency      string  `json:"currency" validate:"required,oneof=USD EUR GBP RUB"`
	Frequency     string  `json:"frequency" validate:"required,oneof=daily weekly monthly yearly"`
	Category      string  `json:"category" validate:"required,oneof=food entertainment shopping health education other"`
	PaymentMethod string  `json:"payment_method" validate:"required"`
	Status        string  `json:"status" validate:"omitempty,oneof=active inactive cancelled"`
	StartDate     string  `json:"start_date" validate:"required"`
	EndDate       string  `json:"end_date" validate:"required"`
	RenewalDate   string  `json:"renewal_date" validate:"omitempty"`
}

// ValidationError собирает нарушения доменных инвариантов подписки.
// Сообщения склеиваются в одну строку для ответа клиенту.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// Validate проверяет доменные инварианты подписки целиком по кандидату в памяти.
// Перекрёстная проверка start_date < end_date выполняется здесь одной функцией,
// а не парой зависящих друг от друга валидаторов полей.
func (s *Subscription) Validate() error {
	var msgs []string

	if l := len(s.Name); l < 3 || l > 20 {
		msgs = append(msgs, "name must be between 3 and 20 characters")
	}
	if s.Price < 0 {
		msgs = append(msgs, "price must be greater than or equal to 0")
	}
	if !validCurrencies[s.Currency] {
		msgs = append(msgs, fmt.Sprintf("currency %q is not supported", s.Currency))
	}
	if _, ok := renewalOffsetDays[s.Frequency]; !ok {
		msgs = append(msgs, fmt.Sprintf("frequency %q is not supported", s.Frequency))
	}
	if !validCategories[s.Category] {
		msgs = append(msgs, fmt.Sprintf("category %q is not supported", s.Category))
	}
	if s.PaymentMethod == "" {
		msgs = append(msgs, "payment method is required")
	}
	if s.Status != "" && !validStatuses[s.Status] {
		msgs = append(msgs, fmt.Sprintf("status %q is not supported", s.Status))
	}
	if s.UserUID == "" {
		msgs = append(msgs, "owning user is required")
	}
	if !s.StartDate.Before(s.EndDate) {
		msgs = append(msgs, "start date must be before end date")
	}

	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}

// NormalizeForSave применяет два шага подготовки подписки к записи, по порядку:
//
//  1. Если дата продления не задана, она вычисляется один раз как
//     start_date + смещение периодичности. Уже заданная дата никогда
//     не пересчитывается, иначе правка любого поля сдвигала бы график.
//  2. Если дата продления уже в прошлом относительно now, статус
//     принудительно становится inactive. Эта проверка выполняется при
//     каждой записи, в том числе сразу после вычисления даты.
//
// Вызывается сервисом явно перед каждой записью в хранилище.
func (s *Subscription) NormalizeForSave(now time.Time) {
	if s.Status == "" {
		s.Status = StatusActive
	}
	if s.RenewalDate.IsZero() {
		s.RenewalDate = s.StartDate.AddDate(0, 0, renewalOffsetDays[s.Frequency])
	}
	if s.RenewalDate.Before(now) {
		s.Status = StatusInactive
	}
}
