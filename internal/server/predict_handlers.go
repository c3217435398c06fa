package server

import (
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"strings"

	"farmsphere/internal/inference"
	"farmsphere/internal/middleware"
	"farmsphere/internal/models"
	"farmsphere/internal/serialize"
	"farmsphere/internal/service"

	"github.com/gofiber/fiber/v2"
)

type predictRequest struct {
	Image    string `json:"image"`
	UserID   string `json:"userId"`
	Location string `json:"location"`
}

var (
	errNoImage      = models.NewValidationError("No image provided")
	errInvalidImage = models.NewValidationError("Invalid image data")
)

// decodeBase64Image accepts plain or data-URL base64.
func decodeBase64Image(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "data:") {
		if i := strings.Index(raw, ","); i >= 0 {
			raw = raw[i+1:]
		}
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(raw, "="))
	}
	return data, err
}

// readPredictInput pulls the image from the multipart file field or the
// JSON image field.
func readPredictInput(c *fiber.Ctx) ([]byte, predictRequest, error) {
	if fh, err := c.FormFile("file"); err == nil {
		req := predictRequest{UserID: c.FormValue("userId"), Location: c.FormValue("location")}
		f, err := fh.Open()
		if err != nil {
			return nil, req, errInvalidImage
		}
		defer func() { _ = f.Close() }()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, req, errInvalidImage
		}
		return data, req, nil
	}

	var req predictRequest
	if err := parseBody(c, &req); err != nil {
		return nil, req, errNoImage
	}
	if req.Image == "" {
		return nil, req, errNoImage
	}
	data, err := decodeBase64Image(req.Image)
	if err != nil {
		return nil, req, errInvalidImage
	}
	return data, req, nil
}

// Predict godoc
// @Summary Diagnose a crop image
// @Description Returns up to three disease labels with confidence above 0.1. Send a multipart "file" or JSON {"image": "<base64>"}. A userId stores the result as a diagnosis.
// @Tags inference
// @Accept json,mpfd
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /predict [post]
func (s *Server) Predict(c *fiber.Ctx) error {
	if s.classifier == nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			&models.AppError{Code: models.CodeInternal, Message: "Model not loaded"})
	}

	data, req, err := readPredictInput(c)
	if err != nil {
		return respondError(c, err)
	}

	ctx := c.UserContext()
	results, err := s.classifier.Classify(ctx, data)
	if err != nil {
		if errors.Is(err, inference.ErrInvalidImage) {
			return respondError(c, errInvalidImage)
		}
		return respondError(c, err)
	}

	body := fiber.Map{"results": results}
	if req.UserID != "" {
		diagnosis, err := s.cropHealthService.CreateDiagnosis(ctx, service.CreateDiagnosisInput{
			UserID:   req.UserID,
			Results:  results,
			Location: models.OptionalString(req.Location),
		})
		if err != nil {
			middleware.Logger.WarnContext(ctx, "Failed to store diagnosis",
				slog.String("user_id", req.UserID),
				slog.String("error", err.Error()),
			)
		} else {
			body["diagnosis"] = serialize.Record(diagnosis)
		}
	}
	return c.JSON(body)
}
