package repository

import (
	"context"

	"farmsphere/internal/models"

	"gorm.io/gorm"
)

// ActivityRepository persists farm activity logs.
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	ListByUser(ctx context.Context, userID string, page Page) ([]*models.Activity, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// ListByUser returns one page of userID's activities, newest first.
func (r *activityRepository) ListByUser(ctx context.Context, userID string, page Page) ([]*models.Activity, error) {
	activities := []*models.Activity{}
	err := page.apply(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order(newestFirst("timestamp")).
		Find(&activities).Error
	return activities, err
}
