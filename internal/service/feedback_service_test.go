package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hazrinhakim/project-psm-figma/internal/models"
	appErrors "github.com/hazrinhakim/project-psm-figma/pkg/errors"
)

type fakeFeedbackRepo struct {
	entries   map[string]*models.Feedback
	updateErr error
}

func (f *fakeFeedbackRepo) List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, int, error) {
	out := make([]models.Feedback, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, *e)
	}
	return out, len(out), nil
}

func (f *fakeFeedbackRepo) FindByID(ctx context.Context, id string) (*models.Feedback, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *e
	return &clone, nil
}

func (f *fakeFeedbackRepo) Create(ctx context.Context, entry *models.Feedback) error {
	if entry.ID == "" {
		entry.ID = "f-created"
	}
	if f.entries == nil {
		f.entries = make(map[string]*models.Feedback)
	}
	f.entries[entry.ID] = entry
	return nil
}

func (f *fakeFeedbackRepo) UpdateStatus(ctx context.Context, id string, status models.FeedbackStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if e, ok := f.entries[id]; ok {
		e.Status = status
	}
	return nil
}

func newFeedbackFixture() (*FeedbackService, *fakeFeedbackRepo) {
	repo := &fakeFeedbackRepo{entries: map[string]*models.Feedback{
		"f1": {ID: "f1", CreatedBy: "staff-1", Role: models.RoleStaff, Message: "slow wifi", Status: models.FeedbackOpen},
	}}
	return NewFeedbackService(repo, validator.New(), zap.NewNop()), repo
}

func TestFeedbackCreateCapturesRole(t *testing.T) {
	svc, repo := newFeedbackFixture()

	entry, err := svc.Create(context.Background(), "staff-1", models.RoleStaff, "staff@moh.gov.my", CreateFeedbackInput{
		Message: "printer out of toner",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, entry.Role)
	assert.Equal(t, "staff@moh.gov.my", entry.Email)
	assert.Equal(t, models.FeedbackOpen, entry.Status)
	assert.Contains(t, repo.entries, entry.ID)
}

func TestFeedbackCreateRequiresMessage(t *testing.T) {
	svc, _ := newFeedbackFixture()

	_, err := svc.Create(context.Background(), "staff-1", models.RoleStaff, "", CreateFeedbackInput{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestFeedbackCreateRejectsMalformedEmail(t *testing.T) {
	svc, _ := newFeedbackFixture()

	_, err := svc.Create(context.Background(), "staff-1", models.RoleStaff, "", CreateFeedbackInput{
		Message: "hello",
		Email:   "not-an-email",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestFeedbackMarkReviewed(t *testing.T) {
	svc, repo := newFeedbackFixture()

	entry, err := svc.MarkReviewed(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackReviewed, entry.Status)
	assert.Equal(t, models.FeedbackReviewed, repo.entries["f1"].Status)
}

func TestFeedbackMarkReviewedRollsBackOnFailure(t *testing.T) {
	svc, repo := newFeedbackFixture()
	repo.updateErr = errors.New("write timeout")

	entry, err := svc.MarkReviewed(context.Background(), "f1")
	require.Error(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, models.FeedbackOpen, entry.Status)
	assert.Equal(t, models.FeedbackOpen, repo.entries["f1"].Status)
}

func TestFeedbackMarkReviewedUnknownID(t *testing.T) {
	svc, _ := newFeedbackFixture()

	_, err := svc.MarkReviewed(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
