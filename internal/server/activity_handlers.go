package server

import (
	"farmsphere/internal/models"
	"farmsphere/internal/serialize"
	"farmsphere/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createActivityRequest struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Crop  string `json:"crop"`
	Notes string `json:"notes"`
}

type createDiagnosisRequest struct {
	ID       string              `json:"id"`
	ImageURL *string             `json:"imageUrl"`
	Results  []models.Prediction `json:"results"`
	Location *string             `json:"location"`
}

// GetActivities handles GET /api/users/:id/activities
func (s *Server) GetActivities(c *fiber.Ctx) error {
	page := s.parsePagination(c, service.DefaultPageLimit)

	activities, err := s.activityService.ListActivities(c.UserContext(), c.Params("id"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"activities": serialize.Records(activities)})
}

// CreateActivity handles POST /api/users/:id/activities
func (s *Server) CreateActivity(c *fiber.Ctx) error {
	var req createActivityRequest
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c)
	}

	activity, err := s.activityService.CreateActivity(c.UserContext(), service.CreateActivityInput{
		ID:     req.ID,
		UserID: c.Params("id"),
		Type:   req.Type,
		Crop:   req.Crop,
		Notes:  req.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(serialize.Record(activity))
}

// GetDiagnoses handles GET /api/users/:id/crop-health
func (s *Server) GetDiagnoses(c *fiber.Ctx) error {
	page := s.parsePagination(c, service.DefaultPageLimit)

	diagnoses, err := s.cropHealthService.ListDiagnoses(c.UserContext(), c.Params("id"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"diagnoses": serialize.Records(diagnoses)})
}

// CreateDiagnosis handles POST /api/users/:id/crop-health
func (s *Server) CreateDiagnosis(c *fiber.Ctx) error {
	var req createDiagnosisRequest
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c)
	}

	diagnosis, err := s.cropHealthService.CreateDiagnosis(c.UserContext(), service.CreateDiagnosisInput{
		ID:       req.ID,
		UserID:   c.Params("id"),
		ImageURL: req.ImageURL,
		Results:  req.Results,
		Location: req.Location,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(serialize.Record(diagnosis))
}
