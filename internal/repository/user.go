package repository

import (
	"context"

	"farmsphere/internal/cache"
	"farmsphere/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewUserRepository returns a new UserRepository implementation. c may be nil.
func NewUserRepository(db *gorm.DB, c *cache.Cache) UserRepository {
	return &userRepository{db: db, cache: c}
}

func (r *userRepository) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := r.cache.Aside(ctx, cache.UserKey(userID), &user, cache.UserTTL, func() error {
		err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
		return notFound(err, "User not found")
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts user. A concurrent insert of the same userId or email
// surfaces as gorm.ErrDuplicatedKey.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return err
	}
	r.cache.InvalidateUser(ctx, user.UserID)
	return nil
}
