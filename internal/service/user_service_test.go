package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hazrinhakim/project-psm-figma/internal/models"
	appErrors "github.com/hazrinhakim/project-psm-figma/pkg/errors"
)

type fakeUserRepo struct {
	users        map[string]*models.User
	inviteTokens []*models.InviteToken
	auditLogs    []*models.AuditLog
	deleteMissed bool
}

func (f *fakeUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.UserAccount, int, error) {
	out := make([]models.UserAccount, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, models.UserAccount{ID: u.ID, Email: u.Email, Active: u.Active})
	}
	return out, len(out), nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "u-created"
	}
	if f.users == nil {
		f.users = make(map[string]*models.User)
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := f.users[id]; !ok {
		f.deleteMissed = true
		return false, nil
	}
	delete(f.users, id)
	return true, nil
}

func (f *fakeUserRepo) CreateInviteToken(ctx context.Context, token *models.InviteToken) error {
	f.inviteTokens = append(f.inviteTokens, token)
	return nil
}

func (f *fakeUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	f.auditLogs = append(f.auditLogs, log)
	return nil
}

type fakeProfileRepo struct {
	profiles map[string]*models.Profile
	patched  map[string]models.ProfilePatch
}

func (f *fakeProfileRepo) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *p
	return &clone, nil
}

func (f *fakeProfileRepo) Create(ctx context.Context, profile *models.Profile) error {
	if f.profiles == nil {
		f.profiles = make(map[string]*models.Profile)
	}
	f.profiles[profile.ID] = profile
	return nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, id string, patch models.ProfilePatch) error {
	if f.patched == nil {
		f.patched = make(map[string]models.ProfilePatch)
	}
	f.patched[id] = patch
	if p, ok := f.profiles[id]; ok {
		if patch.FullName != nil {
			p.FullName = *patch.FullName
		}
		if patch.Role != nil {
			p.Role = *patch.Role
		}
	}
	return nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) SendInvite(toEmail, toName, token string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, toEmail)
	return nil
}

func newUserFixture() (*UserService, *fakeUserRepo, *fakeProfileRepo, *fakeMailer) {
	users := &fakeUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Email: "existing@moh.gov.my", Active: true},
	}}
	profiles := &fakeProfileRepo{profiles: map[string]*models.Profile{
		"u1": {ID: "u1", FullName: "Siti Zulaikha", Role: models.RoleAdmin},
	}}
	mail := &fakeMailer{}
	svc := NewUserService(users, profiles, mail, 72*time.Hour, validator.New(), zap.NewNop())
	return svc, users, profiles, mail
}

func TestUserInvite(t *testing.T) {
	svc, users, profiles, mail := newUserFixture()

	account, err := svc.Invite(context.Background(), "u1", InviteUserRequest{
		Email:    "New.Staff@MOH.gov.my",
		FullName: "Lim Wei Jie",
		Role:     models.RoleStaff,
	})
	require.NoError(t, err)
	assert.Equal(t, "new.staff@moh.gov.my", account.Email)
	assert.Equal(t, models.RoleStaff, account.Role)
	assert.False(t, account.Active)

	require.Contains(t, users.users, account.ID)
	require.Contains(t, profiles.profiles, account.ID)
	require.Len(t, users.inviteTokens, 1)
	assert.Equal(t, account.ID, users.inviteTokens[0].UserID)
	assert.NotEmpty(t, users.inviteTokens[0].Token)
	assert.Equal(t, []string{"new.staff@moh.gov.my"}, mail.sent)
}

func TestUserInviteDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newUserFixture()

	_, err := svc.Invite(context.Background(), "u1", InviteUserRequest{
		Email:    "existing@moh.gov.my",
		FullName: "Someone Else",
		Role:     models.RoleStaff,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestUserInviteValidation(t *testing.T) {
	svc, _, _, _ := newUserFixture()

	_, err := svc.Invite(context.Background(), "u1", InviteUserRequest{FullName: "No Email", Role: models.RoleStaff})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Invite(context.Background(), "u1", InviteUserRequest{
		Email:    "x@moh.gov.my",
		FullName: "Bad Role",
		Role:     models.UserRole("superuser"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserInviteSucceedsWhenMailFails(t *testing.T) {
	svc, users, _, mail := newUserFixture()
	mail.err = errors.New("smtp unreachable")

	account, err := svc.Invite(context.Background(), "u1", InviteUserRequest{
		Email:    "new@moh.gov.my",
		FullName: "Lim Wei Jie",
		Role:     models.RoleStaff,
	})
	require.NoError(t, err)
	assert.Contains(t, users.users, account.ID)
	require.Len(t, users.inviteTokens, 1)
}

func TestUserUpdateProfile(t *testing.T) {
	svc, _, profiles, _ := newUserFixture()
	name := "Siti Z. Abdullah"
	role := models.RoleAdminAssistant

	profile, err := svc.UpdateProfile(context.Background(), "actor-1", "u1", models.ProfilePatch{
		FullName: &name,
		Role:     &role,
	})
	require.NoError(t, err)
	assert.Equal(t, name, profile.FullName)
	assert.Equal(t, role, profile.Role)
	assert.Contains(t, profiles.patched, "u1")
}

func TestUserUpdateProfileUnknownRole(t *testing.T) {
	svc, _, _, _ := newUserFixture()
	role := models.UserRole("superuser")

	_, err := svc.UpdateProfile(context.Background(), "actor-1", "u1", models.ProfilePatch{Role: &role})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserDeleteSelfForbidden(t *testing.T) {
	svc, users, _, _ := newUserFixture()

	err := svc.Delete(context.Background(), "u1", "u1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Contains(t, users.users, "u1")
}

func TestUserDeleteMissing(t *testing.T) {
	svc, _, _, _ := newUserFixture()

	err := svc.Delete(context.Background(), "actor-1", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUserDelete(t *testing.T) {
	svc, users, _, _ := newUserFixture()

	require.NoError(t, svc.Delete(context.Background(), "actor-1", "u1"))
	assert.NotContains(t, users.users, "u1")
	require.NotEmpty(t, users.auditLogs)
	assert.Equal(t, models.AuditActionUserDelete, users.auditLogs[len(users.auditLogs)-1].Action)
}
