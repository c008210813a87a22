package employee

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"backend-workhub/internal/db"
	"backend-workhub/internal/shared/validate"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, name, email, password_hash, needs_password_change, role, designation, company_id, joining_date, gender, profile_image_url, address, contact_number, is_deleted, created_at, updated_at`

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	db     db.Querier
	hasher PasswordHasher
	now    func() time.Time
}

func NewService(q db.Querier, hasher PasswordHasher) *Service {
	return &Service{db: q, hasher: hasher, now: time.Now}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Employee, error) {
	e := Employee{
		ID:                  uuid.NewString(),
		Name:                req.Name,
		Email:               req.Email,
		NeedsPasswordChange: req.NeedsPasswordChange,
		Role:                req.Role,
		Designation:         req.Designation,
		CompanyID:           req.CompanyID,
		Gender:              req.Gender,
		ProfileImageURL:     req.ProfileImageURL,
		Address:             req.Address,
		ContactNumber:       req.ContactNumber,
	}
	if req.JoiningDate != nil {
		e.JoiningDate = req.JoiningDate.Resolve(time.UTC)
	}

	v := validate.New().
		Length("password", req.Password, 6, 0).
		Check(req.JoiningDate != nil, "joiningDate", "Joining date is required.")
	if err := s.check(v, e); err != nil {
		return Employee{}, err
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return Employee{}, fmt.Errorf("hash password: %w", err)
	}
	e.PasswordHash = hash

	row := s.db.QueryRow(ctx, `
		INSERT INTO employees (id, name, email, password_hash, needs_password_change, role, designation,
			company_id, joining_date, gender, profile_image_url, address, contact_number)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at, updated_at
	`, e.ID, e.Name, e.Email, e.PasswordHash, e.NeedsPasswordChange, e.Role, e.Designation,
		e.CompanyID, e.JoiningDate, e.Gender, e.ProfileImageURL, e.Address, e.ContactNumber)
	if err := row.Scan(&e.CreatedAt, &e.UpdatedAt); err != nil {
		return Employee{}, fmt.Errorf("create employee: %w", db.Classify(err))
	}
	return e, nil
}

func (s *Service) List(ctx context.Context) ([]Employee, error) {
	return s.list(ctx, `
		SELECT `+employeeColumns+`
		FROM employees WHERE `+db.Live+`
		ORDER BY created_at
	`)
}

func (s *Service) ListByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	return s.list(ctx, `
		SELECT `+employeeColumns+`
		FROM employees WHERE `+db.LiveAnd("company_id = $1")+`
		ORDER BY created_at
	`, companyID)
}

func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	return scanEmployee(s.db.QueryRow(ctx, `
		SELECT `+employeeColumns+`
		FROM employees WHERE `+db.LiveAnd("id = $1"),
		id))
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Employee, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	for dst, src := range map[*string]*string{
		&e.Name:            req.Name,
		&e.Email:           req.Email,
		&e.Role:            req.Role,
		&e.Designation:     req.Designation,
		&e.Gender:          req.Gender,
		&e.ProfileImageURL: req.ProfileImageURL,
		&e.Address:         req.Address,
		&e.ContactNumber:   req.ContactNumber,
	} {
		if src != nil {
			*dst = *src
		}
	}
	if req.NeedsPasswordChange != nil {
		e.NeedsPasswordChange = *req.NeedsPasswordChange
	}
	if req.JoiningDate != nil {
		e.JoiningDate = req.JoiningDate.Resolve(time.UTC)
	}

	if err := s.check(validate.New(), e); err != nil {
		return Employee{}, err
	}

	row := s.db.QueryRow(ctx, `
		UPDATE employees
		SET name = $2, email = $3, needs_password_change = $4, role = $5, designation = $6,
		    joining_date = $7, gender = $8, profile_image_url = $9, address = $10,
		    contact_number = $11, updated_at = now()
		WHERE id = $1 AND `+db.Live+`
		RETURNING updated_at
	`, e.ID, e.Name, e.Email, e.NeedsPasswordChange, e.Role, e.Designation,
		e.JoiningDate, e.Gender, e.ProfileImageURL, e.Address, e.ContactNumber)
	if err := row.Scan(&e.UpdatedAt); err != nil {
		return Employee{}, fmt.Errorf("update employee: %w", db.Classify(err))
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE employees SET is_deleted = TRUE, updated_at = now()
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

func (s *Service) check(v *validate.Validator, e Employee) error {
	return v.
		Required("name", e.Name).
		Email("email", e.Email).
		Required("role", e.Role).
		Required("designation", e.Designation).
		Required("companyId", e.CompanyID).
		Check(!e.JoiningDate.After(s.now()), "joiningDate", "Joining date cannot be in the future.").
		OneOf("gender", e.Gender, genders...).
		URL("profileImageUrl", e.ProfileImageURL).
		Required("address", e.Address).
		Match("contactNumber", e.ContactNumber, phonePattern, "Contact number must be a valid phone number.").
		Err()
}

func (s *Service) list(ctx context.Context, query string, args ...any) ([]Employee, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	employees := []Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, db.Classify(rows.Err())
}

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.PasswordHash, &e.NeedsPasswordChange, &e.Role,
		&e.Designation, &e.CompanyID, &e.JoiningDate, &e.Gender, &e.ProfileImageURL, &e.Address,
		&e.ContactNumber, &e.IsDeleted, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return Employee{}, db.Classify(err)
	}
	return e, nil
}
