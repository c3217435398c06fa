package repository

import (
	"context"

	"farmsphere/internal/models"

	"gorm.io/gorm"
)

// CropHealthRepository persists disease diagnoses.
type CropHealthRepository interface {
	Create(ctx context.Context, diagnosis *models.CropHealth) error
	ListByUser(ctx context.Context, userID string, page Page) ([]*models.CropHealth, error)
}

type cropHealthRepository struct {
	db *gorm.DB
}

func NewCropHealthRepository(db *gorm.DB) CropHealthRepository {
	return &cropHealthRepository{db: db}
}

func (r *cropHealthRepository) Create(ctx context.Context, diagnosis *models.CropHealth) error {
	return r.db.WithContext(ctx).Create(diagnosis).Error
}

// ListByUser returns one page of userID's diagnoses, newest first.
func (r *cropHealthRepository) ListByUser(ctx context.Context, userID string, page Page) ([]*models.CropHealth, error) {
	diagnoses := []*models.CropHealth{}
	err := page.apply(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order(newestFirst("timestamp")).
		Find(&diagnoses).Error
	return diagnoses, err
}
