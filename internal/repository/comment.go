package repository

import (
	"context"

	"farmsphere/internal/cache"
	"farmsphere/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
}

type commentRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB, c *cache.Cache) CommentRepository {
	return &commentRepository{db: db, cache: c}
}

// Create inserts comment and bumps the parent post's comment counter in one
// transaction. A missing post yields a NOT_FOUND error and writes nothing.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := forUpdate(tx).Where("id = ?", comment.PostID).First(&post).Error; err != nil {
			return notFound(err, "Post not found")
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", comment.PostID).
			Updates(map[string]any{
				"comments":   gorm.Expr("comments + ?", 1),
				"updated_at": comment.CreatedAt,
			}).Error
	})
	if err != nil {
		return err
	}
	r.cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

// ListByPost returns the comments on postID, oldest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order(oldestFirst("timestamp")).
		Find(&comments).Error
	return comments, err
}
