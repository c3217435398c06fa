package service

import (
	"context"
	"fmt"

	"farmsphere/internal/models"
	"farmsphere/internal/repository"
	"farmsphere/internal/validation"
)

type PostService struct {
	postRepo repository.PostRepository
	now      Clock
}

type CreatePostInput struct {
	ID       string
	AuthorID string
	Author   string
	Content  string
	Location string
	Tags     []string
	Image    *string
}

// PostPage is one page of the feed.
type PostPage struct {
	Posts []*models.Post
	Total int64
	Page  int
	Limit int
}

func NewPostService(postRepo repository.PostRepository, now Clock) *PostService {
	return &PostService{postRepo: postRepo, now: clockOrDefault(now)}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := firstError(
		validation.ValidateID("id", in.ID),
		validation.ValidateLength("authorId", in.AuthorID, validation.MaxIDLength),
		validation.ValidateLength("author", in.Author, validation.MaxNameLength),
		validation.ValidateLength("content", in.Content, validation.MaxContentLength),
		validation.ValidateLength("location", in.Location, validation.MaxNameLength),
		validation.ValidateTags(in.Tags),
	); err != nil {
		return nil, err
	}

	post := models.NewPost(models.PostFields{
		ID:       newID(in.ID),
		AuthorID: in.AuthorID,
		Author:   in.Author,
		Content:  in.Content,
		Location: in.Location,
		Tags:     in.Tags,
		Image:    in.Image,
	}, s.now())

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) ListPosts(ctx context.Context, p Pagination) (*PostPage, error) {
	posts, total, err := s.postRepo.List(ctx, p.Window())
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return &PostPage{Posts: posts, Total: total, Page: p.Page, Limit: p.Limit}, nil
}

// DeletePost removes the post together with its comments, likes and saves.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	return s.postRepo.Delete(ctx, id)
}

func requireUserID(userID string) error {
	if userID == "" {
		return models.NewValidationError("userId is required")
	}
	return nil
}

// ToggleLike flips userID's like on postID and returns the new state and
// like count.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) (bool, int, error) {
	if err := requireUserID(userID); err != nil {
		return false, 0, err
	}
	return s.postRepo.ToggleLike(ctx, postID, userID, s.now())
}

// ToggleSave flips userID's bookmark on postID.
func (s *PostService) ToggleSave(ctx context.Context, postID, userID string) (bool, error) {
	if err := requireUserID(userID); err != nil {
		return false, err
	}
	return s.postRepo.ToggleSave(ctx, postID, userID, s.now())
}

func (s *PostService) ListLikes(ctx context.Context, postID string) ([]*models.PostLike, error) {
	return s.postRepo.ListLikes(ctx, postID)
}

func (s *PostService) ListSavedPosts(ctx context.Context, userID string) ([]*models.Post, error) {
	return s.postRepo.ListSavedByUser(ctx, userID)
}
