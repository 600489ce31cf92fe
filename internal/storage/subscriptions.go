package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/subtrack/internal/models"
)

const subscriptionColumns = `id, name, price, currency, frequency, category,
			      payment_method, status, start_date, end_date, renewal_date,
			      user_uid, created_at, updated_at`

func scanSubscription(row interface{ Scan(...any) error }) (*models.Subscription, error) {
	var sub models.Subscription
	err := row.Scan(&sub.ID, &sub.Name, &sub.Price, &sub.Currency, &sub.Frequency,
		&sub.Category, &sub.PaymentMethod, &sub.Status, &sub.StartDate, &sub.EndDate,
		&sub.RenewalDate, &sub.UserUID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreateSubscription вставляет новую запись подписки и возвращает её
// вместе с присвоенным ID и временными метками.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (name, price, currency, frequency, category,
			      payment_method, status, start_date, end_date, renewal_date, user_uid)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING ` + subscriptionColumns
	row := s.DB.QueryRowContext(ctx, query,
		sub.Name, sub.Price, sub.Currency, sub.Frequency, sub.Category,
		sub.PaymentMethod, sub.Status, sub.StartDate, sub.EndDate, sub.RenewalDate,
		sub.UserUID)
	created, err := scanSubscription(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// ReadSubscription возвращает данные подписки по её ID.
func (s *Storage) ReadSubscription(ctx context.Context, id int) (*models.Subscription, error) {
	const op = "storage.ReadSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)
	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// UpdateSubscription обновляет данные подписки по её ID и возвращает
// сохранённую запись.
func (s *Storage) UpdateSubscription(ctx context.Context, sub models.Subscription, id int) (*models.Subscription, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET name = $1, price = $2, currency = $3, frequency = $4, category = $5,
			      payment_method = $6, status = $7, start_date = $8, end_date = $9,
			      renewal_date = $10, updated_at = now()
			  WHERE id = $11
			  RETURNING ` + subscriptionColumns
	row := s.DB.QueryRowContext(ctx, query,
		sub.Name, sub.Price, sub.Currency, sub.Frequency, sub.Category,
		sub.PaymentMethod, sub.Status, sub.StartDate, sub.EndDate, sub.RenewalDate, id)
	updated, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// UpdateSubscriptionStatus меняет только статус подписки и возвращает
// сохранённую запись. Используется при отмене.
func (s *Storage) UpdateSubscriptionStatus(ctx context.Context, id int, status string) (*models.Subscription, error) {
	const op = "storage.UpdateSubscriptionStatus"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = $1, updated_at = now()
			  WHERE id = $2
			  RETURNING ` + subscriptionColumns
	row := s.DB.QueryRowContext(ctx, query, status, id)
	updated, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// RemoveSubscription удаляет подписку по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveSubscription(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListSubscriptions возвращает список всех подписок пользователя.
func (s *Storage) ListSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_uid = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListUpcomingRenewals возвращает активные подписки пользователя,
// дата продления которых попадает в интервал [from, to).
func (s *Storage) ListUpcomingRenewals(ctx context.Context, userUID string, from, to time.Time) ([]*models.Subscription, error) {
	const op = "storage.ListUpcomingRenewals"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_uid = $1
			  	AND status = $2
			  	AND renewal_date >= $3
			  	AND renewal_date < $4
			  ORDER BY renewal_date`
	rows, err := s.DB.QueryContext(ctx, query, userUID, models.StatusActive, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
