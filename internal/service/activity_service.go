package service

import (
	"context"
	"fmt"

	"farmsphere/internal/models"
	"farmsphere/internal/repository"
	"farmsphere/internal/validation"
)

type ActivityService struct {
	activityRepo repository.ActivityRepository
	now          Clock
}

type CreateActivityInput struct {
	ID     string
	UserID string
	Type   string
	Crop   string
	Notes  string
}

func NewActivityService(activityRepo repository.ActivityRepository, now Clock) *ActivityService {
	return &ActivityService{activityRepo: activityRepo, now: clockOrDefault(now)}
}

func (s *ActivityService) CreateActivity(ctx context.Context, in CreateActivityInput) (*models.Activity, error) {
	if err := firstError(
		validation.ValidateID("id", in.ID),
		validation.ValidateLength("type", in.Type, validation.MaxNameLength),
		validation.ValidateLength("crop", in.Crop, validation.MaxNameLength),
		validation.ValidateLength("notes", in.Notes, validation.MaxContentLength),
	); err != nil {
		return nil, err
	}

	activity := models.NewActivity(models.ActivityFields{
		ID:     newID(in.ID),
		UserID: in.UserID,
		Type:   in.Type,
		Crop:   in.Crop,
		Notes:  in.Notes,
	}, s.now())

	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	return activity, nil
}

func (s *ActivityService) ListActivities(ctx context.Context, userID string, p Pagination) ([]*models.Activity, error) {
	return s.activityRepo.ListByUser(ctx, userID, p.Window())
}
