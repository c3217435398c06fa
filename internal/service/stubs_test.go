package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"farmsphere/internal/models"
	"farmsphere/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation)
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getFn    func(context.Context, string) (*models.User, error)
	createFn func(context.Context, *models.User) error
	updateFn func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	return s.getFn(ctx, userID)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func missingUserRepo() *userRepoStub {
	return &userRepoStub{
		getFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, models.NewNotFoundError("User not found")
		},
		createFn: func(_ context.Context, _ *models.User) error { return nil },
		updateFn: func(_ context.Context, _ *models.User) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn     func(context.Context, *models.Post) error
	getByIDFn    func(context.Context, string) (*models.Post, error)
	listFn       func(context.Context, repository.Page) ([]*models.Post, int64, error)
	deleteFn     func(context.Context, string) error
	toggleLikeFn func(context.Context, string, string, time.Time) (bool, int, error)
	toggleSaveFn func(context.Context, string, string, time.Time) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, page repository.Page) ([]*models.Post, int64, error) {
	return s.listFn(ctx, page)
}
func (s *postRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) ToggleLike(ctx context.Context, postID, userID string, now time.Time) (bool, int, error) {
	return s.toggleLikeFn(ctx, postID, userID, now)
}
func (s *postRepoStub) ToggleSave(ctx context.Context, postID, userID string, now time.Time) (bool, error) {
	return s.toggleSaveFn(ctx, postID, userID, now)
}
func (s *postRepoStub) ListLikes(_ context.Context, _ string) ([]*models.PostLike, error) {
	return []*models.PostLike{}, nil
}
func (s *postRepoStub) ListSavedByUser(_ context.Context, _ string) ([]*models.Post, error) {
	return []*models.Post{}, nil
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, _ string) (*models.Post, error) { return &models.Post{}, nil },
		listFn: func(_ context.Context, _ repository.Page) ([]*models.Post, int64, error) {
			return []*models.Post{}, 0, nil
		},
		deleteFn: func(_ context.Context, _ string) error { return nil },
		toggleLikeFn: func(_ context.Context, _, _ string, _ time.Time) (bool, int, error) {
			return true, 1, nil
		},
		toggleSaveFn: func(_ context.Context, _, _ string, _ time.Time) (bool, error) { return true, nil },
	}
}

// chatRepoStub records created messages.
type chatRepoStub struct {
	created []*models.ChatMessage
	err     error
}

func (s *chatRepoStub) CreateMessage(_ context.Context, msg *models.ChatMessage) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, msg)
	return nil
}
func (s *chatRepoStub) ListMessages(_ context.Context, _ string, _ repository.Page) ([]*models.ChatMessage, error) {
	return s.created, nil
}

type publisherStub struct {
	published []*models.ChatMessage
	err       error
}

func (p *publisherStub) PublishChatMessage(_ context.Context, msg *models.ChatMessage) error {
	p.published = append(p.published, msg)
	return p.err
}
