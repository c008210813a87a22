package subscription

import (
	"context"
	"fmt"
	"time"

	"backend-workhub/internal/db"
	"backend-workhub/internal/shared/validate"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const subscriptionColumns = `id, plan, services, start_date, expiry_date, status, price, is_deleted, created_at, updated_at`

type Service struct {
	db db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{db: q}
}

func (s *Service) Create(ctx context.Context, in Input) (Subscription, error) {
	sub := Subscription{ID: uuid.NewString()}
	merge(&sub, in)
	v := validate.New().
		Check(in.StartDate != nil, "startDate", "Invalid date format for start Date").
		Check(in.ExpiryDate != nil, "expiryDate", "Invalid date format for expiry Date").
		Check(in.Price != nil, "price", "price is required")
	if err := check(v, sub); err != nil {
		return Subscription{}, err
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO subscriptions (id, plan, services, start_date, expiry_date, status, price)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at
	`, sub.ID, sub.Plan, sub.Services, sub.StartDate, sub.ExpiryDate, sub.Status, sub.Price)
	if err := row.Scan(&sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return Subscription{}, fmt.Errorf("create subscription: %w", db.Classify(err))
	}
	return sub, nil
}

func (s *Service) List(ctx context.Context) ([]Subscription, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions WHERE `+db.Live+`
		ORDER BY created_at
	`)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	subs := []Subscription{}
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, db.Classify(rows.Err())
}

func (s *Service) Get(ctx context.Context, id string) (Subscription, error) {
	return scanSubscription(s.db.QueryRow(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions WHERE `+db.LiveAnd("id = $1"),
		id))
}

// Update applies the non-empty fields of in.
func (s *Service) Update(ctx context.Context, id string, in Input) (Subscription, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return Subscription{}, err
	}
	merge(&sub, in)
	if err := check(validate.New(), sub); err != nil {
		return Subscription{}, err
	}

	row := s.db.QueryRow(ctx, `
		UPDATE subscriptions
		SET plan = $2, services = $3, start_date = $4, expiry_date = $5, status = $6, price = $7, updated_at = now()
		WHERE id = $1 AND `+db.Live+`
		RETURNING updated_at
	`, sub.ID, sub.Plan, sub.Services, sub.StartDate, sub.ExpiryDate, sub.Status, sub.Price)
	if err := row.Scan(&sub.UpdatedAt); err != nil {
		return Subscription{}, fmt.Errorf("update subscription: %w", db.Classify(err))
	}
	return sub, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE subscriptions SET is_deleted = TRUE, updated_at = now()
		WHERE id = $1 AND `+db.Live,
		id)
	if err != nil {
		return db.Classify(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func merge(sub *Subscription, in Input) {
	if in.Plan != "" {
		sub.Plan = in.Plan
	}
	if in.Services != nil {
		sub.Services = in.Services
	}
	if in.StartDate != nil {
		sub.StartDate = in.StartDate.Resolve(time.UTC)
	}
	if in.ExpiryDate != nil {
		sub.ExpiryDate = in.ExpiryDate.Resolve(time.UTC)
	}
	if in.Status != "" {
		sub.Status = in.Status
	}
	if in.Price != nil {
		sub.Price = *in.Price
	}
}

func check(v *validate.Validator, sub Subscription) error {
	return v.
		Required("plan", sub.Plan).
		Check(len(sub.Services) > 0, "services", "At least one service is required").
		OneOf("status", sub.Status, StatusActive, StatusInactive).
		Check(!sub.ExpiryDate.Before(sub.StartDate), "expiryDate", "expiryDate must not be before startDate").
		Check(sub.Price >= 0, "price", "price must not be negative").
		Err()
}

func scanSubscription(row pgx.Row) (Subscription, error) {
	var sub Subscription
	err := row.Scan(&sub.ID, &sub.Plan, &sub.Services, &sub.StartDate, &sub.ExpiryDate, &sub.Status,
		&sub.Price, &sub.IsDeleted, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return Subscription{}, db.Classify(err)
	}
	return sub, nil
}
