package service

import (
	"context"

	"farmsphere/internal/models"
	"farmsphere/internal/repository"
	"farmsphere/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	now         Clock
}

type CreateCommentInput struct {
	ID       string
	PostID   string
	UserID   string
	UserName string
	Content  string
}

func NewCommentService(commentRepo repository.CommentRepository, now Clock) *CommentService {
	return &CommentService{commentRepo: commentRepo, now: clockOrDefault(now)}
}

// CreateComment stores a comment and bumps the post's counter. A missing post
// yields NOT_FOUND.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := firstError(
		validation.ValidateID("id", in.ID),
		validation.ValidateLength("userName", in.UserName, validation.MaxNameLength),
		validation.ValidateLength("content", in.Content, validation.MaxContentLength),
	); err != nil {
		return nil, err
	}

	comment := models.NewComment(models.CommentFields{
		ID:       newID(in.ID),
		PostID:   in.PostID,
		UserID:   in.UserID,
		UserName: in.UserName,
		Content:  in.Content,
	}, s.now())

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}
