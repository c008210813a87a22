package company

import (
	"context"
	"fmt"

	"backend-workhub/internal/db"
	"backend-workhub/internal/shared/validate"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const companyColumns = `id, name, email, password_hash, needs_password_change, subscription, profile_image_url, address, contact_number, is_deleted, created_at, updated_at`

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	db     db.Querier
	hasher PasswordHasher
}

func NewService(q db.Querier, hasher PasswordHasher) *Service {
	return &Service{db: q, hasher: hasher}
}

// Create registers a company. Passwords are 6 to 20 characters.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Company, error) {
	v := validate.New().Length("password", req.Password, 6, 20)
	if err := checkProfile(v, req.Name, req.Email, req.Subscription, req.ProfileImageURL, req.Address, req.ContactNumber); err != nil {
		return Company{}, err
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return Company{}, fmt.Errorf("hash password: %w", err)
	}

	c := Company{
		ID:                  uuid.NewString(),
		Name:                req.Name,
		Email:               req.Email,
		PasswordHash:        hash,
		NeedsPasswordChange: req.NeedsPasswordChange,
		Subscription:        req.Subscription,
		ProfileImageURL:     req.ProfileImageURL,
		Address:             req.Address,
		ContactNumber:       req.ContactNumber,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO companies (id, name, email, password_hash, needs_password_change, subscription, profile_image_url, address, contact_number)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at
	`, c.ID, c.Name, c.Email, c.PasswordHash, c.NeedsPasswordChange, c.Subscription, c.ProfileImageURL, c.Address, c.ContactNumber)
	if err := row.Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		return Company{}, fmt.Errorf("create company: %w", db.Classify(err))
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]Company, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+companyColumns+`
		FROM companies WHERE `+db.Live+`
		ORDER BY created_at
	`)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	companies := []Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, db.Classify(rows.Err())
}

func (s *Service) Get(ctx context.Context, id string) (Company, error) {
	return scanCompany(s.db.QueryRow(ctx, `
		SELECT `+companyColumns+`
		FROM companies WHERE `+db.LiveAnd("id = $1"),
		id))
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Company, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return Company{}, err
	}
	apply(&c.Name, req.Name)
	apply(&c.Email, req.Email)
	apply(&c.Subscription, req.Subscription)
	apply(&c.ProfileImageURL, req.ProfileImageURL)
	apply(&c.Address, req.Address)
	apply(&c.ContactNumber, req.ContactNumber)
	if req.NeedsPasswordChange != nil {
		c.NeedsPasswordChange = *req.NeedsPasswordChange
	}

	if err := checkProfile(validate.New(), c.Name, c.Email, c.Subscription, c.ProfileImageURL, c.Address, c.ContactNumber); err != nil {
		return Company{}, err
	}

	row := s.db.QueryRow(ctx, `
		UPDATE companies
		SET name = $2, email = $3, needs_password_change = $4, subscription = $5,
		    profile_image_url = $6, address = $7, contact_number = $8, updated_at = now()
		WHERE id = $1 AND `+db.Live+`
		RETURNING updated_at
	`, c.ID, c.Name, c.Email, c.NeedsPasswordChange, c.Subscription, c.ProfileImageURL, c.Address, c.ContactNumber)
	if err := row.Scan(&c.UpdatedAt); err != nil {
		return Company{}, fmt.Errorf("update company: %w", db.Classify(err))
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE companies SET is_deleted = TRUE, updated_at = now()
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

func checkProfile(v *validate.Validator, name, email, subscription, imageURL, address, contact string) error {
	return v.
		Required("name", name).
		Email("email", email).
		Required("subscription", subscription).
		URL("profileImageUrl", imageURL).
		Required("address", address).
		Length("contactNumber", contact, 10, 0).
		Err()
}

func apply(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func scanCompany(row pgx.Row) (Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.NeedsPasswordChange, &c.Subscription,
		&c.ProfileImageURL, &c.Address, &c.ContactNumber, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Company{}, db.Classify(err)
	}
	return c, nil
}
