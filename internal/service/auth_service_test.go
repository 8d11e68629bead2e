package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/mcu-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/mcu-dashboard-api/pkg/errors"
)

type mockUserRepo struct {
	users         map[string]*models.User
	byEmail       map[string]string
	tokens        map[string]*models.RefreshToken
	revokedAllFor []string
	passwords     map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:     make(map[string]*models.User),
		byEmail:   make(map[string]string),
		tokens:    make(map[string]*models.RefreshToken),
		passwords: make(map[string]string),
	}
}

func (m *mockUserRepo) addUser(id, email, password string) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &models.User{ID: id, Email: email, PasswordHash: string(hash), FullName: "Staff " + id, Active: true}
	m.users[id] = user
	m.byEmail[email] = id
	return user
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if id, ok := m.byEmail[email]; ok {
		cp := *m.users[id]
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "generated"
	}
	cp := *user
	m.users[user.ID] = &cp
	m.byEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if u, ok := m.users[id]; ok {
		u.LastLogin = &ts
	}
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if u, ok := m.users[id]; ok {
		u.PasswordHash = passwordHash
		u.UpdatedAt = updatedAt
	}
	m.passwords[id] = passwordHash
	return nil
}

func (m *mockUserRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	m.revokedAllFor = append(m.revokedAllFor, userID)
	for _, t := range m.tokens {
		if t.UserID == userID {
			t.Revoked = true
		}
	}
	return nil
}

func (m *mockUserRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	cp := *token
	m.tokens[token.Token] = &cp
	return nil
}

func (m *mockUserRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := m.tokens[token]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, t := range m.tokens {
		if t.ID == id {
			t.Revoked = true
			t.RevokedAt = &revokedAt
		}
	}
	return nil
}

func newAuthFixture(repo *mockUserRepo) *AuthService {
	return NewAuthService(repo, nil, nil, AuthConfig{
		AccessTokenSecret:  "test_secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
	})
}

func TestAuthLoginSuccess(t *testing.T) {
	repo := newMockUserRepo()
	repo.addUser("u1", "staff@example.com", "s3cret-pass")
	svc := newAuthFixture(repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "staff@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "staff@example.com", resp.User.Email)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "staff@example.com", claims.Email)
}

func TestAuthLoginWrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	repo.addUser("u1", "staff@example.com", "s3cret-pass")
	svc := newAuthFixture(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "staff@example.com",
		Password: "wrong",
	})

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthLoginUnknownEmailSameError(t *testing.T) {
	svc := newAuthFixture(newMockUserRepo())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthLoginInactiveAccount(t *testing.T) {
	repo := newMockUserRepo()
	user := repo.addUser("u1", "staff@example.com", "s3cret-pass")
	user.Active = false
	svc := newAuthFixture(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "staff@example.com",
		Password: "s3cret-pass",
	})

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestAuthRefreshRotatesToken(t *testing.T) {
	repo := newMockUserRepo()
	repo.addUser("u1", "staff@example.com", "s3cret-pass")
	svc := newAuthFixture(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "staff@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The used token is revoked: a second exchange must fail.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAuthLogoutRejectsForeignToken(t *testing.T) {
	repo := newMockUserRepo()
	repo.addUser("u1", "staff@example.com", "s3cret-pass")
	svc := newAuthFixture(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "staff@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	err = svc.Logout(context.Background(), login.RefreshToken, "someone-else")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken, "u1"))
}

func TestAuthChangePasswordRevokesSessions(t *testing.T) {
	repo := newMockUserRepo()
	repo.addUser("u1", "staff@example.com", "s3cret-pass")
	svc := newAuthFixture(repo)

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		OldPassword: "s3cret-pass",
		NewPassword: "brand-new-pass",
	})
	require.NoError(t, err)

	assert.Contains(t, repo.revokedAllFor, "u1")
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.passwords["u1"]), []byte("brand-new-pass")))

	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "staff@example.com",
		Password: "brand-new-pass",
	})
	require.NoError(t, err)
}

func TestAuthChangePasswordOldMismatch(t *testing.T) {
	repo := newMockUserRepo()
	repo.addUser("u1", "staff@example.com", "s3cret-pass")
	svc := newAuthFixture(repo)

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		OldPassword: "not-the-one",
		NewPassword: "brand-new-pass",
	})

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAuthBootstrapCreatesOnce(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, nil, nil, AuthConfig{
		AccessTokenSecret: "test_secret",
		BootstrapEmail:    "hse@example.com",
		BootstrapPassword: "bootstrap-pass",
		BootstrapName:     "HSE Lead",
	})

	require.NoError(t, svc.Bootstrap(context.Background()))
	require.Contains(t, repo.byEmail, "hse@example.com")
	first := repo.users[repo.byEmail["hse@example.com"]]
	assert.Equal(t, "HSE Lead", first.FullName)
	assert.True(t, first.Active)

	// A second startup finds the account and leaves it alone.
	require.NoError(t, svc.Bootstrap(context.Background()))
	assert.Len(t, repo.users, 1)
}

func TestAuthBootstrapSkippedWithoutConfig(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, nil, nil, AuthConfig{AccessTokenSecret: "test_secret"})

	require.NoError(t, svc.Bootstrap(context.Background()))
	assert.Empty(t, repo.users)
}

func TestAuthValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthFixture(newMockUserRepo())

	_, err := svc.ValidateToken("not-a-jwt")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}
