package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hazrinhakim/project-psm-figma/internal/models"
	appErrors "github.com/hazrinhakim/project-psm-figma/pkg/errors"
)

type fakeNotificationRepo struct {
	notifications map[string]*models.Notification
	setReadErr    error
	markAllCalled bool
}

func (f *fakeNotificationRepo) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error) {
	out := make([]models.Notification, 0, len(f.notifications))
	for _, n := range f.notifications {
		if filter.UnreadOnly && n.Read {
			continue
		}
		out = append(out, *n)
	}
	return out, len(out), nil
}

func (f *fakeNotificationRepo) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *n
	return &clone, nil
}

func (f *fakeNotificationRepo) SetRead(ctx context.Context, id string, read bool) error {
	if f.setReadErr != nil {
		return f.setReadErr
	}
	if n, ok := f.notifications[id]; ok {
		n.Read = read
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	f.markAllCalled = true
	for _, n := range f.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, n := range f.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func newNotificationFixture() (*NotificationService, *fakeNotificationRepo) {
	repo := &fakeNotificationRepo{notifications: map[string]*models.Notification{
		"n1": {ID: "n1", UserID: "staff-1", Message: "hello", Type: models.NotificationMaintenance},
	}}
	return NewNotificationService(repo, nil, zap.NewNop()), repo
}

func TestNotificationSetRead(t *testing.T) {
	svc, repo := newNotificationFixture()

	notification, err := svc.SetRead(context.Background(), "staff-1", "n1", true)
	require.NoError(t, err)
	assert.True(t, notification.Read)
	assert.True(t, repo.notifications["n1"].Read)
}

func TestNotificationSetReadReturnsOriginalStateOnFailure(t *testing.T) {
	svc, repo := newNotificationFixture()
	repo.setReadErr = errors.New("write timeout")

	notification, err := svc.SetRead(context.Background(), "staff-1", "n1", true)
	require.Error(t, err)
	require.NotNil(t, notification)
	assert.False(t, notification.Read)
	assert.False(t, repo.notifications["n1"].Read)
}

func TestNotificationSetReadRejectsOtherUsers(t *testing.T) {
	svc, _ := newNotificationFixture()

	_, err := svc.SetRead(context.Background(), "staff-2", "n1", true)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestNotificationSetReadUnknownID(t *testing.T) {
	svc, _ := newNotificationFixture()

	_, err := svc.SetRead(context.Background(), "staff-1", "missing", true)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestNotificationMarkAllRead(t *testing.T) {
	svc, repo := newNotificationFixture()
	repo.notifications["n2"] = &models.Notification{ID: "n2", UserID: "staff-1"}
	repo.notifications["n3"] = &models.Notification{ID: "n3", UserID: "other"}

	require.NoError(t, svc.MarkAllRead(context.Background(), "staff-1"))
	assert.True(t, repo.notifications["n1"].Read)
	assert.True(t, repo.notifications["n2"].Read)
	assert.False(t, repo.notifications["n3"].Read)
}
