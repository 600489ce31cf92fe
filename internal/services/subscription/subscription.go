// Package services содержит бизнес-логику для управления подписками:
// подготовку записи к сохранению, проверку владельца, кеширование
// и публикацию событий жизненного цикла.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subtrack/internal/lib/sl"
	"github.com/magabrotheeeer/subtrack/internal/models"
	"github.com/magabrotheeeer/subtrack/internal/storage"
)

// dateLayout формат дат в JSON-запросах.
const dateLayout = "2006-01-02"

// renewalWindow горизонт выборки предстоящих продлений.
const renewalWindow = 7 * 24 * time.Hour

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новую подписку и возвращает сохранённую запись.
	CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	// ReadSubscription возвращает подписку по ID.
	ReadSubscription(ctx context.Context, id int) (*models.Subscription, error)
	// UpdateSubscription обновляет данные подписки по ID.
	UpdateSubscription(ctx context.Context, sub models.Subscription, id int) (*models.Subscription, error)
	// UpdateSubscriptionStatus меняет только статус подписки.
	UpdateSubscriptionStatus(ctx context.Context, id int, status string) (*models.Subscription, error)
	// RemoveSubscription удаляет подписку по ID и возвращает количество удалённых записей.
	RemoveSubscription(ctx context.Context, id int) (int, error)
	// ListSubscriptions возвращает список подписок пользователя.
	ListSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error)
	// ListUpcomingRenewals возвращает активные подписки с продлением в интервале [from, to).
	ListUpcomingRenewals(ctx context.Context, userUID string, from, to time.Time) ([]*models.Subscription, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// EventPublisher публикует события жизненного цикла подписок.
type EventPublisher interface {
	Publish(message any) error
}

// SubscriptionEvent сообщение о смене состояния подписки.
type SubscriptionEvent struct {
	Event       string    `json:"event"`
	ID          int       `json:"id"`
	UserUID     string    `json:"user_uid"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	RenewalDate time.Time `json:"renewal_date"`
}

// SubscriptionService реализует бизнес-логику работы с подписками.
type SubscriptionService struct {
	repo   SubscriptionRepository
	cache  Cache
	events EventPublisher
	log    *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
// events может быть nil, тогда публикация событий отключена.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, events EventPublisher, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:   repo,
		cache:  cache,
		events: events,
		log:    log,
	}
}

// Create создает новую подписку для пользователя.
// Перед записью выполняются Validate и NormalizeForSave: вывод даты
// продления и возможное принудительное понижение статуса происходят
// здесь явно, а не в хуке хранилища.
func (s *SubscriptionService) Create(ctx context.Context, userUID string, req models.DummySubscription) (*models.Subscription, error) {
	sub, err := s.fromRequest(userUID, req)
	if err != nil {
		return nil, err
	}
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	sub.NormalizeForSave(time.Now().UTC())

	created, err := s.repo.CreateSubscription(ctx, *sub)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new subscription", slog.Int("id", created.ID))

	s.cacheSet(created)
	s.publish("subscription.created", created)
	return created, nil
}

// Read возвращает подписку по ID, используя кеш или репозиторий.
// Чужая подписка неотличима от отсутствующей.
func (s *SubscriptionService) Read(ctx context.Context, userUID string, id int) (*models.Subscription, error) {
	var result *models.Subscription
	cacheKey := fmt.Sprintf("subscription:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), sl.Err(err))
		found = false
	}
	if !found {
		result, err = s.repo.ReadSubscription(ctx, id)
		if err != nil {
			return nil, err
		}
		s.cacheSet(result)
	}
	if result.UserUID != userUID {
		return nil, storage.ErrSubscriptionNotFound
	}
	return result, nil
}

// Update обновляет подписку пользователя.
// Уже выведенная дата продления сохраняется и не пересчитывается,
// понижение статуса по прошедшей дате применяется снова.
func (s *SubscriptionService) Update(ctx context.Context, userUID string, id int, req models.DummySubscription) (*models.Subscription, error) {
	existing, err := s.repo.ReadSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserUID != userUID {
		return nil, storage.ErrSubscriptionNotFound
	}

	sub, err := s.fromRequest(userUID, req)
	if err != nil {
		return nil, err
	}
	if sub.RenewalDate.IsZero() {
		sub.RenewalDate = existing.RenewalDate
	}
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	sub.NormalizeForSave(time.Now().UTC())

	updated, err := s.repo.UpdateSubscription(ctx, *sub, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("updated subscription", slog.Int("id", id))

	s.cacheSet(updated)
	return updated, nil
}

// Remove удаляет подписку пользователя и инвалидирует кеш.
func (s *SubscriptionService) Remove(ctx context.Context, userUID string, id int) (int, error) {
	existing, err := s.repo.ReadSubscription(ctx, id)
	if err != nil {
		return 0, err
	}
	if existing.UserUID != userUID {
		return 0, storage.ErrSubscriptionNotFound
	}

	cacheKey := fmt.Sprintf("subscription:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), sl.Err(err))
	}

	count, err := s.repo.RemoveSubscription(ctx, id)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Cancel переводит подписку пользователя в статус cancelled.
func (s *SubscriptionService) Cancel(ctx context.Context, userUID string, id int) (*models.Subscription, error) {
	existing, err := s.repo.ReadSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserUID != userUID {
		return nil, storage.ErrSubscriptionNotFound
	}

	cancelled, err := s.repo.UpdateSubscriptionStatus(ctx, id, models.StatusCancelled)
	if err != nil {
		return nil, err
	}
	s.log.Info("cancelled subscription", slog.Int("id", id))

	s.cacheSet(cancelled)
	s.publish("subscription.cancelled", cancelled)
	return cancelled, nil
}

// List возвращает все подписки пользователя.
func (s *SubscriptionService) List(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	return s.repo.ListSubscriptions(ctx, userUID)
}

// UpcomingRenewals возвращает активные подписки пользователя,
// продление которых наступает в ближайшие семь дней.
func (s *SubscriptionService) UpcomingRenewals(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	now := time.Now().UTC()
	return s.repo.ListUpcomingRenewals(ctx, userUID, now, now.Add(renewalWindow))
}

// fromRequest конвертирует JSON-модель в доменную, парся даты.
func (s *SubscriptionService) fromRequest(userUID string, req models.DummySubscription) (*models.Subscription, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, &models.ValidationError{Messages: []string{"invalid start date"}}
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, &models.ValidationError{Messages: []string{"invalid end date"}}
	}
	var renewalDate time.Time
	if req.RenewalDate != "" {
		renewalDate, err = time.Parse(dateLayout, req.RenewalDate)
		if err != nil {
			return nil, &models.ValidationError{Messages: []string{"invalid renewal date"}}
		}
	}
	return &models.Subscription{
		Name:          req.Name,
		Price:         req.Price,
		Currency:      req.Currency,
		Frequency:     req.Frequency,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
		StartDate:     startDate,
		EndDate:       endDate,
		RenewalDate:   renewalDate,
		UserUID:       userUID,
	}, nil
}

func (s *SubscriptionService) cacheSet(sub *models.Subscription) {
	cacheKey := fmt.Sprintf("subscription:%d", sub.ID)
	if err := s.cache.Set(cacheKey, sub, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), sl.Err(err))
	}
}

func (s *SubscriptionService) publish(event string, sub *models.Subscription) {
	if s.events == nil {
		return
	}
	msg := SubscriptionEvent{
		Event:       event,
		ID:          sub.ID,
		UserUID:     sub.UserUID,
		Name:        sub.Name,
		Status:      sub.Status,
		RenewalDate: sub.RenewalDate,
	}
	if err := s.events.Publish(msg); err != nil {
		s.log.Warn("failed to publish subscription event", slog.String("event", event), sl.Err(err))
	}
}
