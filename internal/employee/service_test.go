package employee

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"backend-workhub/internal/db"
	"backend-workhub/internal/shared/calendar"
	"backend-workhub/internal/shared/validate"

	"github.com/pashagolub/pgxmock/v3"
)

var employeeCols = []string{"id", "name", "email", "password_hash", "needs_password_change", "role", "designation", "company_id", "joining_date", "gender", "profile_image_url", "address", "contact_number", "is_deleted", "created_at", "updated_at"}

var (
	created = time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC)
	joined  = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
)

type stubHasher struct{}

func (stubHasher) HashPassword(p string) (string, error) { return "hashed:" + p, nil }

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func newTestService(q db.Querier) *Service {
	svc := NewService(q, stubHasher{})
	svc.now = func() time.Time { return created }
	return svc
}

func day(t *testing.T, s string) *calendar.Day {
	t.Helper()
	var d calendar.Day
	if err := json.Unmarshal([]byte(`"`+s+`"`), &d); err != nil {
		t.Fatalf("day %s: %v", s, err)
	}
	return &d
}

func validCreate(t *testing.T) CreateRequest {
	return CreateRequest{
		Name:            "Rahim",
		Email:           "rahim@acme.test",
		Password:        "secret1",
		Role:            "engineer",
		Designation:     "Backend Developer",
		CompanyID:       "company-1",
		JoiningDate:     day(t, "2024-01-15"),
		Gender:          "male",
		ProfileImageURL: "https://cdn.acme.test/rahim.png",
		Address:         "Dhaka",
		ContactNumber:   "+8801700000000",
	}
}

func employeeRow(id, companyID string) *pgxmock.Rows {
	return pgxmock.NewRows(employeeCols).AddRow(id, "Rahim", "rahim@acme.test", "hashed:secret1", false, "engineer",
		"Backend Developer", companyID, joined, "male", "https://cdn.acme.test/rahim.png", "Dhaka", "+8801700000000",
		false, created, created)
}

func TestCreateEmployee(t *testing.T) {
	mock := newMock(t)
	svc := newTestService(mock)

	mock.ExpectQuery(`INSERT INTO employees`).
		WithArgs(pgxmock.AnyArg(), "Rahim", "rahim@acme.test", "hashed:secret1", false, "engineer", "Backend Developer",
			"company-1", joined, "male", "https://cdn.acme.test/rahim.png", "Dhaka", "+8801700000000").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, created))

	e, err := svc.Create(context.Background(), validCreate(t))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.ID == "" || !e.JoiningDate.Equal(joined) {
		t.Fatalf("unexpected employee %+v", e)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateEmployeeValidation(t *testing.T) {
	svc := newTestService(nil)

	cases := map[string]func(*CreateRequest){
		"future joining":  func(r *CreateRequest) { r.JoiningDate = day(t, "2030-01-01") },
		"missing joining": func(r *CreateRequest) { r.JoiningDate = nil },
		"bad phone":       func(r *CreateRequest) { r.ContactNumber = "01-700-000" },
		"bad gender":      func(r *CreateRequest) { r.Gender = "unknown" },
		"short password":  func(r *CreateRequest) { r.Password = "abc" },
		"no company":      func(r *CreateRequest) { r.CompanyID = "" },
		"no designation":  func(r *CreateRequest) { r.Designation = "" },
		"bad url":         func(r *CreateRequest) { r.ProfileImageURL = "not a url" },
	}
	for name, mutate := range cases {
		req := validCreate(t)
		mutate(&req)
		var ve *validate.Errors
		if _, err := svc.Create(context.Background(), req); !errors.As(err, &ve) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestListEmployees(t *testing.T) {
	mock := newMock(t)
	svc := newTestService(mock)

	mock.ExpectQuery(`FROM employees WHERE is_deleted = FALSE\s+ORDER BY`).WillReturnRows(employeeRow("emp-1", "company-1"))
	all, err := svc.List(context.Background())
	if err != nil || len(all) != 1 {
		t.Fatalf("list: %v", err)
	}

	mock.ExpectQuery(`FROM employees WHERE is_deleted = FALSE AND company_id = \$1`).
		WithArgs("company-2").
		WillReturnRows(pgxmock.NewRows(employeeCols))
	byCompany, err := svc.ListByCompany(context.Background(), "company-2")
	if err != nil || byCompany == nil || len(byCompany) != 0 {
		t.Fatalf("expected empty list: %v", err)
	}
}

func TestUpdateEmployee(t *testing.T) {
	mock := newMock(t)
	svc := newTestService(mock)
	designation := "Lead"

	mock.ExpectQuery(`AND id = \$1`).WithArgs("emp-1").WillReturnRows(employeeRow("emp-1", "company-1"))
	mock.ExpectQuery(`UPDATE employees`).
		WithArgs("emp-1", "Rahim", "rahim@acme.test", false, "engineer", "Lead", joined, "male",
			"https://cdn.acme.test/rahim.png", "Dhaka", "+8801700000000").
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(created))

	e, err := svc.Update(context.Background(), "emp-1", UpdateRequest{Designation: &designation})
	if err != nil || e.Designation != "Lead" || e.CompanyID != "company-1" {
		t.Fatalf("update: %v %+v", err, e)
	}

	phone := "123"
	mock.ExpectQuery(`AND id = \$1`).WithArgs("emp-1").WillReturnRows(employeeRow("emp-1", "company-1"))
	if _, err := svc.Update(context.Background(), "emp-1", UpdateRequest{ContactNumber: &phone}); err == nil {
		t.Fatalf("expected bad phone to be rejected")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteEmployee(t *testing.T) {
	mock := newMock(t)
	svc := newTestService(mock)

	mock.ExpectExec(`UPDATE employees SET is_deleted = TRUE`).WithArgs("emp-1").WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	if err := svc.Delete(context.Background(), "emp-1"); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
