package service

import (
	"context"
	"fmt"

	"farmsphere/internal/models"
	"farmsphere/internal/repository"
	"farmsphere/internal/validation"
)

type CropHealthService struct {
	cropHealthRepo repository.CropHealthRepository
	now            Clock
}

type CreateDiagnosisInput struct {
	ID       string
	UserID   string
	ImageURL *string
	Results  []models.Prediction
	Location *string
}

func NewCropHealthService(cropHealthRepo repository.CropHealthRepository, now Clock) *CropHealthService {
	return &CropHealthService{cropHealthRepo: cropHealthRepo, now: clockOrDefault(now)}
}

func (s *CropHealthService) CreateDiagnosis(ctx context.Context, in CreateDiagnosisInput) (*models.CropHealth, error) {
	errs := []error{validation.ValidateID("id", in.ID)}
	if in.Location != nil {
		errs = append(errs, validation.ValidateLength("location", *in.Location, validation.MaxNameLength))
	}
	for _, r := range in.Results {
		errs = append(errs, validation.ValidateLength("label", r.Label, validation.MaxNameLength))
	}
	if err := firstError(errs...); err != nil {
		return nil, err
	}

	diagnosis := models.NewCropHealth(models.CropHealthFields{
		ID:       newID(in.ID),
		UserID:   in.UserID,
		ImageURL: in.ImageURL,
		Results:  in.Results,
		Location: in.Location,
	}, s.now())

	if err := s.cropHealthRepo.Create(ctx, diagnosis); err != nil {
		return nil, fmt.Errorf("create diagnosis: %w", err)
	}
	return diagnosis, nil
}

func (s *CropHealthService) ListDiagnoses(ctx context.Context, userID string, p Pagination) ([]*models.CropHealth, error) {
	return s.cropHealthRepo.ListByUser(ctx, userID, p.Window())
}
