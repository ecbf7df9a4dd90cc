package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hazrinhakim/project-psm-figma/internal/models"
	appErrors "github.com/hazrinhakim/project-psm-figma/pkg/errors"
)

type fakeAuthUserRepo struct {
	users         map[string]*models.User
	refreshTokens map[string]*models.RefreshToken
	inviteTokens  map[string]*models.InviteToken
	activated     map[string]string
	consumed      []string
	auditLogs     []*models.AuditLog
}

func newFakeAuthUserRepo() *fakeAuthUserRepo {
	return &fakeAuthUserRepo{
		users:         make(map[string]*models.User),
		refreshTokens: make(map[string]*models.RefreshToken),
		inviteTokens:  make(map[string]*models.InviteToken),
		activated:     make(map[string]string),
	}
}

func (f *fakeAuthUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeAuthUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func (f *fakeAuthUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if u, ok := f.users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (f *fakeAuthUserRepo) Activate(ctx context.Context, id, passwordHash string, activatedAt time.Time) error {
	f.activated[id] = passwordHash
	if u, ok := f.users[id]; ok {
		u.PasswordHash = passwordHash
		u.Active = true
	}
	return nil
}

func (f *fakeAuthUserRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	for _, t := range f.refreshTokens {
		if t.UserID == userID {
			t.Revoked = true
		}
	}
	return nil
}

func (f *fakeAuthUserRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	f.refreshTokens[token.Token] = token
	return nil
}

func (f *fakeAuthUserRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	t, ok := f.refreshTokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return t, nil
}

func (f *fakeAuthUserRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, t := range f.refreshTokens {
		if t.ID == id {
			t.Revoked = true
			t.RevokedAt = &revokedAt
		}
	}
	return nil
}

func (f *fakeAuthUserRepo) FindInviteToken(ctx context.Context, token string) (*models.InviteToken, error) {
	t, ok := f.inviteTokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return t, nil
}

func (f *fakeAuthUserRepo) ConsumeInviteToken(ctx context.Context, id string, usedAt time.Time) error {
	f.consumed = append(f.consumed, id)
	for _, t := range f.inviteTokens {
		if t.ID == id {
			t.UsedAt = &usedAt
		}
	}
	return nil
}

func (f *fakeAuthUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	f.auditLogs = append(f.auditLogs, log)
	return nil
}

type fakeAuthProfileRepo struct {
	profiles map[string]*models.Profile
}

func (f *fakeAuthProfileRepo) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeAuthUserRepo, *fakeAuthProfileRepo) {
	t.Helper()
	users := newFakeAuthUserRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse1"), bcrypt.MinCost)
	require.NoError(t, err)
	users.users["u1"] = &models.User{
		ID:           "u1",
		Email:        "admin@moh.gov.my",
		PasswordHash: string(hash),
		Active:       true,
	}
	profiles := &fakeAuthProfileRepo{profiles: map[string]*models.Profile{
		"u1": {ID: "u1", FullName: "Siti Zulaikha", Role: models.RoleAdmin},
	}}
	svc := NewAuthService(users, profiles, validator.New(), zap.NewNop(), AuthConfig{
		AccessTokenSecret:  "auth-test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "icams-test",
	})
	return svc, users, profiles
}

func TestAuthLogin(t *testing.T) {
	svc, users, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@moh.gov.my",
		Password: "correct-horse1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)
	assert.Equal(t, "Siti Zulaikha", resp.User.FullName)
	assert.Contains(t, users.refreshTokens, resp.RefreshToken)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@moh.gov.my",
		Password: "wrong-password",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@moh.gov.my",
		Password: "whatever12",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthLoginInactiveAccount(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	users.users["u1"].Active = false

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@moh.gov.my",
		Password: "correct-horse1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthActivate(t *testing.T) {
	svc, users, profiles := newAuthFixture(t)
	users.users["u2"] = &models.User{ID: "u2", Email: "new@moh.gov.my", Active: false}
	profiles.profiles["u2"] = &models.Profile{ID: "u2", FullName: "Lim Wei Jie", Role: models.RoleStaff}
	users.inviteTokens["invite-1"] = &models.InviteToken{
		ID:        "t1",
		UserID:    "u2",
		Token:     "invite-1",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}

	err := svc.Activate(context.Background(), models.ActivateAccountRequest{
		Token:           "invite-1",
		Password:        "first-password",
		ConfirmPassword: "first-password",
	})
	require.NoError(t, err)
	assert.True(t, users.users["u2"].Active)
	assert.Contains(t, users.consumed, "t1")

	// The invited user can now log in with the chosen password.
	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "new@moh.gov.my",
		Password: "first-password",
	})
	require.NoError(t, err)
}

func TestAuthActivateUsedToken(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	used := time.Now().UTC().Add(-time.Hour)
	users.inviteTokens["invite-1"] = &models.InviteToken{
		ID:        "t1",
		UserID:    "u1",
		Token:     "invite-1",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
		UsedAt:    &used,
	}

	err := svc.Activate(context.Background(), models.ActivateAccountRequest{
		Token:           "invite-1",
		Password:        "first-password",
		ConfirmPassword: "first-password",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAuthActivateExpiredToken(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	users.inviteTokens["invite-1"] = &models.InviteToken{
		ID:        "t1",
		UserID:    "u1",
		Token:     "invite-1",
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}

	err := svc.Activate(context.Background(), models.ActivateAccountRequest{
		Token:           "invite-1",
		Password:        "first-password",
		ConfirmPassword: "first-password",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthActivatePasswordMismatch(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	err := svc.Activate(context.Background(), models.ActivateAccountRequest{
		Token:           "invite-1",
		Password:        "first-password",
		ConfirmPassword: "other-password",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthRefreshTokenRotation(t *testing.T) {
	svc, users, _ := newAuthFixture(t)

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@moh.gov.my",
		Password: "correct-horse1",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.True(t, users.refreshTokens[login.RefreshToken].Revoked)

	// The consumed token cannot be replayed.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthChangePassword(t *testing.T) {
	svc, users, _ := newAuthFixture(t)

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@moh.gov.my",
		Password: "correct-horse1",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		OldPassword: "correct-horse1",
		NewPassword: "brand-new-pass",
	})
	require.NoError(t, err)
	assert.True(t, users.refreshTokens[login.RefreshToken].Revoked)

	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@moh.gov.my",
		Password: "brand-new-pass",
	})
	require.NoError(t, err)
}

func TestAuthChangePasswordWrongOld(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		OldPassword: "not-the-password",
		NewPassword: "brand-new-pass",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
