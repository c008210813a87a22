package admin

import (
	"context"
	"fmt"

	"backend-workhub/internal/db"
	"backend-workhub/internal/shared/validate"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const adminColumns = `id, name, email, password_hash, role, is_active, is_deleted, created_at, updated_at`

// PasswordHasher is satisfied by auth.Service.
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

func (s *Service) Create(ctx context.Context, req CreateRequest) (Admin, error) {
	if err := validate.New().
		Required("name", req.Name).
		Email("email", req.Email).
		Length("password", req.Password, 6, 0).
		OneOf("role", req.Role, RoleAdmin, RoleSuperAdmin).
		Err(); err != nil {
		return Admin{}, err
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return Admin{}, fmt.Errorf("hash password: %w", err)
	}

	a := Admin{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO admins (id, name, email, password_hash, role, is_active)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at
	`, a.ID, a.Name, a.Email, a.PasswordHash, a.Role, a.IsActive)
	if err := row.Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		return Admin{}, fmt.Errorf("create admin: %w", db.Classify(err))
	}
	return a, nil
}

func (s *Service) List(ctx context.Context) ([]Admin, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+adminColumns+`
		FROM admins WHERE `+db.Live+`
		ORDER BY created_at
	`)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	admins := []Admin{}
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, db.Classify(rows.Err())
}

func (s *Service) Get(ctx context.Context, id string) (Admin, error) {
	return scanAdmin(s.db.QueryRow(ctx, `
		SELECT `+adminColumns+`
		FROM admins WHERE `+db.LiveAnd("id = $1"),
		id))
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Admin, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return Admin{}, err
	}
	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.Email != nil {
		a.Email = *req.Email
	}
	if req.Role != nil {
		a.Role = *req.Role
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}

	if err := validate.New().
		Required("name", a.Name).
		Email("email", a.Email).
		OneOf("role", a.Role, RoleAdmin, RoleSuperAdmin).
		Err(); err != nil {
		return Admin{}, err
	}

	row := s.db.QueryRow(ctx, `
		UPDATE admins
		SET name = $2, email = $3, role = $4, is_active = $5, updated_at = now()
		WHERE id = $1 AND `+db.Live+`
		RETURNING updated_at
	`, a.ID, a.Name, a.Email, a.Role, a.IsActive)
	if err := row.Scan(&a.UpdatedAt); err != nil {
		return Admin{}, fmt.Errorf("update admin: %w", db.Classify(err))
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE admins SET is_deleted = TRUE, updated_at = now()
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

func scanAdmin(row pgx.Row) (Admin, error) {
	var a Admin
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.IsActive,
		&a.IsDeleted, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return Admin{}, db.Classify(err)
	}
	return a, nil
}
