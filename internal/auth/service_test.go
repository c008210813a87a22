package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend-workhub/internal/db"
	"backend-workhub/internal/shared/validate"

	"github.com/pashagolub/pgxmock/v3"
	"golang.org/x/crypto/bcrypt"
)

var credentialColumns = []string{"id", "name", "email", "password_hash", "company_id"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(hash)
}

func TestLoginEmployee(t *testing.T) {
	mock := newMock(t)
	svc := NewService("test-secret", mock, bcrypt.MinCost)

	mock.ExpectQuery(`SELECT id, name, email, password_hash, company_id\s+FROM employees WHERE email = \$1 AND is_deleted = FALSE`).
		WithArgs("emp@acme.test").
		WillReturnRows(pgxmock.NewRows(credentialColumns).
			AddRow("emp-1", "Rahim", "emp@acme.test", mustHash(t, "password123"), "company-1"))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(pgxmock.AnyArg(), "emp-1", "employee", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tokens, err := svc.Login(context.Background(), RoleEmployee, LoginRequest{Email: "emp@acme.test", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" || tokens.TokenType != "Bearer" {
		t.Fatalf("expected tokens")
	}

	ident, err := svc.ValidateAccessToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("validate access: %v", err)
	}
	if ident.ID != "emp-1" || ident.Role != RoleEmployee || ident.CompanyID != "company-1" {
		t.Fatalf("unexpected identity %+v", ident)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLoginAdminRequiresActive(t *testing.T) {
	mock := newMock(t)
	svc := NewService("test-secret", mock, bcrypt.MinCost)

	mock.ExpectQuery(`FROM admins WHERE email = \$1 AND is_active = TRUE AND is_deleted = FALSE`).
		WithArgs("root@workhub.test").
		WillReturnRows(pgxmock.NewRows(credentialColumns))

	_, err := svc.Login(context.Background(), RoleAdmin, LoginRequest{Email: "root@workhub.test", Password: "x"})
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected account not found, got %v", err)
	}
}

func TestLoginInvalidPassword(t *testing.T) {
	mock := newMock(t)
	svc := NewService("test-secret", mock, bcrypt.MinCost)

	mock.ExpectQuery(`FROM companies WHERE email = \$1`).
		WithArgs("hr@acme.test").
		WillReturnRows(pgxmock.NewRows(credentialColumns).
			AddRow("company-1", "Acme", "hr@acme.test", mustHash(t, "correct"), "company-1"))

	_, err := svc.Login(context.Background(), RoleCompany, LoginRequest{Email: "hr@acme.test", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLoginUnknownRole(t *testing.T) {
	svc := NewService("test-secret", nil, 0)
	if _, err := svc.Login(context.Background(), Role("guest"), LoginRequest{}); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected unknown role")
	}
	if svc.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost for out-of-range input")
	}
}

func TestLoginQueryError(t *testing.T) {
	mock := newMock(t)
	svc := NewService("test-secret", mock, bcrypt.MinCost)

	mock.ExpectQuery(`FROM employees`).WithArgs("emp@acme.test").WillReturnError(pgErr)
	_, err := svc.Login(context.Background(), RoleEmployee, LoginRequest{Email: "emp@acme.test", Password: "x"})
	if !errors.Is(err, pgErr) {
		t.Fatalf("expected db error, got %v", err)
	}
}

func TestRefresh(t *testing.T) {
	mock := newMock(t)
	svc := NewService("test-secret", mock, bcrypt.MinCost)
	ident := Identity{ID: "company-1", Role: RoleCompany, Email: "hr@acme.test", Name: "Acme", CompanyID: "company-1"}

	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(pgxmock.AnyArg(), "company-1", "company", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	tokens, err := svc.GenerateTokens(context.Background(), ident)
	if err != nil {
		t.Fatalf("generate tokens: %v", err)
	}

	mock.ExpectQuery(`SELECT subject_id, role, expires_at`).
		WithArgs(tokens.RefreshToken).
		WillReturnRows(pgxmock.NewRows([]string{"subject_id", "role", "expires_at"}).
			AddRow("company-1", "company", time.Now().Add(5*time.Minute)))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(pgxmock.AnyArg(), "company-1", "company", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	refreshed, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.Identity != ident {
		t.Fatalf("expected identity preserved, got %+v", refreshed.Identity)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRefreshRejectsExpiredOrRevoked(t *testing.T) {
	mock := newMock(t)
	svc := NewService("test-secret", mock, bcrypt.MinCost)

	refresh, err := svc.signToken(Identity{ID: "emp-1", Role: RoleEmployee}, TokenRefresh, refreshTokenTTL)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	mock.ExpectQuery(`SELECT subject_id, role, expires_at`).
		WithArgs(refresh).
		WillReturnRows(pgxmock.NewRows([]string{"subject_id", "role", "expires_at"}).
			AddRow("emp-1", "employee", time.Now().Add(-time.Minute)))
	if _, err := svc.Refresh(context.Background(), refresh); err == nil {
		t.Fatalf("expected expired refresh to fail")
	}

	mock.ExpectQuery(`SELECT subject_id, role, expires_at`).
		WithArgs(refresh).
		WillReturnRows(pgxmock.NewRows([]string{"subject_id", "role", "expires_at"}))
	if _, err := svc.Refresh(context.Background(), refresh); err == nil {
		t.Fatalf("expected revoked refresh to fail")
	}

	if _, err := svc.Refresh(context.Background(), "not-a-token"); err == nil {
		t.Fatalf("expected malformed token to fail")
	}
}

func TestLogout(t *testing.T) {
	mock := newMock(t)
	svc := NewService("test-secret", mock, bcrypt.MinCost)

	mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at = now\(\)`).
		WithArgs("token-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	if err := svc.Logout(context.Background(), "token-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}

	mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at = now\(\)`).
		WithArgs("token-2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	if err := svc.Logout(context.Background(), "token-2"); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestValidateAccessTokenWrongSecret(t *testing.T) {
	other := NewService("other-secret", nil, bcrypt.MinCost)
	token, _ := other.signToken(Identity{ID: "emp-1", Role: RoleEmployee}, TokenAccess, accessTokenTTL)

	svc := NewService("test-secret", nil, bcrypt.MinCost)
	if _, err := svc.ValidateAccessToken(token); err == nil {
		t.Fatalf("expected signature failure")
	}
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	mock := newMock(t)
	svc := NewService("test-secret", mock, bcrypt.MinCost)
	ident := Identity{ID: "emp-1", Role: RoleEmployee, CompanyID: "company-1"}

	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(pgxmock.AnyArg(), "emp-1", "employee", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	tokens, err := svc.GenerateTokens(context.Background(), ident)
	if err != nil {
		t.Fatalf("generate tokens: %v", err)
	}

	if _, err := svc.ValidateAccessToken(tokens.RefreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected refresh token rejected as access token, got %v", err)
	}
	// the access token is rejected before any store lookup
	if _, err := svc.Refresh(context.Background(), tokens.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected access token rejected by refresh, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected store calls: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	mock := newMock(t)
	svc := NewService("test-secret", mock, bcrypt.MinCost)

	mock.ExpectQuery(`SELECT password_hash FROM employees WHERE id = \$1 AND is_deleted = FALSE`).
		WithArgs("emp-1").
		WillReturnRows(pgxmock.NewRows([]string{"password_hash"}).AddRow(mustHash(t, "old-pass")))
	mock.ExpectExec(`UPDATE employees SET password_hash = \$2`).
		WithArgs("emp-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := svc.ChangePassword(context.Background(), RoleEmployee, "emp-1", ChangePasswordRequest{CurrentPassword: "old-pass", NewPassword: "new-pass"})
	if err != nil {
		t.Fatalf("change password: %v", err)
	}

	mock.ExpectQuery(`SELECT password_hash FROM employees`).
		WithArgs("emp-1").
		WillReturnRows(pgxmock.NewRows([]string{"password_hash"}).AddRow(mustHash(t, "old-pass")))
	err = svc.ChangePassword(context.Background(), RoleEmployee, "emp-1", ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "new-pass"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestChangePasswordValidation(t *testing.T) {
	svc := NewService("test-secret", nil, bcrypt.MinCost)

	var ve *validate.Errors
	err := svc.ChangePassword(context.Background(), RoleCompany, "company-1", ChangePasswordRequest{CurrentPassword: "old", NewPassword: "123"})
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), Role("guest"), "x", ChangePasswordRequest{}); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected unknown role")
	}
}

func TestHashPassword(t *testing.T) {
	svc := NewService("test-secret", nil, bcrypt.MinCost)
	hash, err := svc.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret1")) != nil {
		t.Fatalf("expected hash to verify")
	}
}

var pgErr = errors.New("db error")
