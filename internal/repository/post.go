package repository

import (
	"context"
	"time"

	"farmsphere/internal/cache"
	"farmsphere/internal/models"
	"farmsphere/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts and the like/save
// relations hanging off them.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, page Page) ([]*models.Post, int64, error)
	Delete(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, postID, userID string, now time.Time) (liked bool, likes int, err error)
	ToggleSave(ctx context.Context, postID, userID string, now time.Time) (saved bool, err error)
	ListLikes(ctx context.Context, postID string) ([]*models.PostLike, error)
	ListSavedByUser(ctx context.Context, userID string) ([]*models.Post, error)
}

type postRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewPostRepository creates a new post repository. c may be nil.
func NewPostRepository(db *gorm.DB, c *cache.Cache) PostRepository {
	return &postRepository{db: db, cache: c}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error
		return notFound(err, "Post not found")
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns one page of the feed, newest first, plus the feed size.
func (r *postRepository) List(ctx context.Context, page Page) ([]*models.Post, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	posts := []*models.Post{}
	err := page.apply(r.db.WithContext(ctx)).
		Order(newestFirst("timestamp")).
		Find(&posts).Error
	return posts, total, err
}

// Delete removes the post and every comment, like and save that references
// it in one transaction.
func (r *postRepository) Delete(ctx context.Context, id string) (err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "DeletePost", "posts")
	defer func() { observability.EndSpan(span, err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post not found")
		}
		for _, child := range []any{&models.Comment{}, &models.PostLike{}, &models.SavedPost{}} {
			if err := tx.Where("post_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		r.cache.InvalidatePost(ctx, id)
	}
	return err
}

// toggle flips the (postID, userID) row of relation. counter, when set, is
// the posts column moved by one in the same direction; its new value is
// returned.
func (r *postRepository) toggle(ctx context.Context, relation string, row any, postID, userID, counter string, now time.Time) (on bool, count int, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "Toggle", relation)
	defer func() { observability.EndSpan(span, err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := forUpdate(tx).Where("id = ?", postID).First(&post).Error; err != nil {
			return notFound(err, "Post not found")
		}

		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(row)
		if res.Error != nil {
			return res.Error
		}
		delta := -1
		if res.RowsAffected == 0 {
			if err := tx.Create(row).Error; err != nil {
				return err
			}
			on, delta = true, 1
		}

		updates := map[string]any{"updated_at": models.Stamp(now)}
		if counter != "" {
			updates[counter] = gorm.Expr(counter+" + ?", delta)
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Updates(updates).Error; err != nil {
			return err
		}
		if counter != "" {
			return tx.Model(&models.Post{}).Where("id = ?", postID).Select(counter).Scan(&count).Error
		}
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	r.cache.InvalidatePost(ctx, postID)
	observability.Toggles.WithLabelValues(relation, stateLabel(on)).Inc()
	return on, count, nil
}

func stateLabel(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func (r *postRepository) ToggleLike(ctx context.Context, postID, userID string, now time.Time) (bool, int, error) {
	return r.toggle(ctx, "post_likes", models.NewPostLike(postID, userID, now), postID, userID, "likes", now)
}

func (r *postRepository) ToggleSave(ctx context.Context, postID, userID string, now time.Time) (bool, error) {
	saved, _, err := r.toggle(ctx, "saved_posts", models.NewSavedPost(postID, userID, now), postID, userID, "", now)
	return saved, err
}

func (r *postRepository) ListLikes(ctx context.Context, postID string) ([]*models.PostLike, error) {
	likes := []*models.PostLike{}
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order(oldestFirst("created_at")).
		Find(&likes).Error
	return likes, err
}

// ListSavedByUser returns the posts userID saved, most recently saved first.
func (r *postRepository) ListSavedByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("posts.*").
		Joins("JOIN saved_posts ON saved_posts.post_id = posts.id").
		Where("saved_posts.user_id = ?", userID).
		Order("saved_posts.created_at DESC").
		Find(&posts).Error
	return posts, err
}
