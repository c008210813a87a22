package auth

import (
	"context"
	"errors"
	"time"

	"backend-workhub/internal/db"
	"backend-workhub/internal/shared/validate"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
	minPasswordLen  = 6
)

var (
	ErrAccountNotFound    = errors.New("invalid email or account not found")
	ErrInvalidCredentials = errors.New("invalid password")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrUnknownRole        = errors.New("unknown role")
)

// credentialQueries select id, name, email, password_hash, company_id for a
// live account by email.
var credentialQueries = map[Role]string{
	RoleAdmin: `
		SELECT id, name, email, password_hash, ''
		FROM admins WHERE email = $1 AND is_active = TRUE AND ` + db.Live,
	RoleCompany: `
		SELECT id, name, email, password_hash, id
		FROM companies WHERE email = $1 AND ` + db.Live,
	RoleEmployee: `
		SELECT id, name, email, password_hash, company_id
		FROM employees WHERE email = $1 AND ` + db.Live,
}

var roleTables = map[Role]string{
	RoleAdmin:    "admins",
	RoleCompany:  "companies",
	RoleEmployee: "employees",
}

type Service struct {
	secret []byte
	db     db.Querier
	cost   int
}

func NewService(secret string, q db.Querier, cost int) *Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		secret: []byte(secret),
		db:     q,
		cost:   cost,
	}
}

// HashPassword is used by the account modules before persisting a password.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) Login(ctx context.Context, role Role, req LoginRequest) (TokenResponse, error) {
	query, ok := credentialQueries[role]
	if !ok {
		return TokenResponse{}, ErrUnknownRole
	}

	var (
		ident Identity
		hash  string
	)
	ident.Role = role
	row := s.db.QueryRow(ctx, query, req.Email)
	if err := row.Scan(&ident.ID, &ident.Name, &ident.Email, &hash, &ident.CompanyID); err != nil {
		if errors.Is(db.Classify(err), db.ErrNotFound) {
			return TokenResponse{}, ErrAccountNotFound
		}
		return TokenResponse{}, db.Classify(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return TokenResponse{}, ErrInvalidCredentials
	}
	return s.GenerateTokens(ctx, ident)
}

func (s *Service) GenerateTokens(ctx context.Context, ident Identity) (TokenResponse, error) {
	access, err := s.signToken(ident, TokenAccess, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	refresh, err := s.signToken(ident, TokenRefresh, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	if err := s.saveRefreshToken(ctx, refresh, ident, refreshTokenTTL); err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
		Identity:     ident,
	}, nil
}

// Refresh exchanges a stored, unrevoked refresh token for a new token pair.
func (s *Service) Refresh(ctx context.Context, token string) (TokenResponse, error) {
	claims, err := s.parseToken(token, TokenRefresh)
	if err != nil {
		return TokenResponse{}, err
	}

	subject, role, expiresAt, err := s.lookupRefreshToken(ctx, token)
	if err != nil || subject != claims.Subject || role != claims.Role || time.Now().After(expiresAt) {
		return TokenResponse{}, errors.New("refresh token invalid")
	}
	return s.GenerateTokens(ctx, claims.Identity())
}

func (s *Service) Logout(ctx context.Context, token string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = now()
		WHERE token = $1 AND revoked_at IS NULL
	`, token)
	if err != nil {
		return db.Classify(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (s *Service) ValidateAccessToken(token string) (Identity, error) {
	claims, err := s.parseToken(token, TokenAccess)
	if err != nil {
		return Identity{}, err
	}
	return claims.Identity(), nil
}

// ChangePassword verifies current against the stored hash before replacing it.
func (s *Service) ChangePassword(ctx context.Context, role Role, id string, req ChangePasswordRequest) error {
	table, ok := roleTables[role]
	if !ok {
		return ErrUnknownRole
	}
	if err := validate.New().
		Required("currentPassword", req.CurrentPassword).
		Length("newPassword", req.NewPassword, minPasswordLen, 0).
		Err(); err != nil {
		return err
	}

	var hash string
	row := s.db.QueryRow(ctx, `SELECT password_hash FROM `+table+` WHERE id = $1 AND `+db.Live, id)
	if err := row.Scan(&hash); err != nil {
		return db.Classify(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	newHash, err := s.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `UPDATE `+table+` SET password_hash = $2, updated_at = now() WHERE id = $1`, id, newHash)
	return db.Classify(err)
}

func (s *Service) signToken(ident Identity, typ TokenType, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:      ident.Role,
		Email:     ident.Email,
		Name:      ident.Name,
		CompanyID: ident.CompanyID,
		Type:      typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.ID,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// parseToken verifies signature and expiry and that the token is of kind want.
func (s *Service) parseToken(token string, want TokenType) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Type != want {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (s *Service) saveRefreshToken(ctx context.Context, token string, ident Identity, ttl time.Duration) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO refresh_tokens (id, subject_id, role, token, expires_at)
		VALUES ($1,$2,$3,$4,$5)
	`, uuid.NewString(), ident.ID, string(ident.Role), token, time.Now().Add(ttl))
	return db.Classify(err)
}

func (s *Service) lookupRefreshToken(ctx context.Context, token string) (string, Role, time.Time, error) {
	row := s.db.QueryRow(ctx, `
		SELECT subject_id, role, expires_at
		FROM refresh_tokens
		WHERE token = $1 AND revoked_at IS NULL
	`, token)
	var (
		subject   string
		role      string
		expiresAt time.Time
	)
	if err := row.Scan(&subject, &role, &expiresAt); err != nil {
		return "", "", time.Time{}, db.Classify(err)
	}
	return subject, Role(role), expiresAt, nil
}
