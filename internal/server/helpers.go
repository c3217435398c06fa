package server

import (
	"errors"
	"log/slog"

	"farmsphere/internal/middleware"
	"farmsphere/internal/models"
	"farmsphere/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"
)

// parsePagination reads page and limit, falling back to defaults and
// clamping limit to the configured maximum.
func (s *Server) parsePagination(c *fiber.Ctx, defaultLimit int) service.Pagination {
	maxLimit := service.MaxPageLimit
	if s.config != nil && s.config.MaxPageLimit > 0 {
		maxLimit = s.config.MaxPageLimit
	}
	return service.NormalizePagination(c.QueryInt("page", 1), c.QueryInt("limit", defaultLimit), defaultLimit, maxLimit)
}

// respondError maps service errors onto HTTP responses. Errors that carry
// no code, other than a missing record, are echoed with status 500.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		if appErr.Code == models.CodeInternal {
			logRequestError(c, err)
		}
		return models.RespondWithError(c, appErr.Status(), appErr)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Record not found"))
	}
	logRequestError(c, err)
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}

func logRequestError(c *fiber.Ctx, err error) {
	middleware.Logger.ErrorContext(c.UserContext(), "Request failed",
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
}

func invalidBody(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
}

// parseBody decodes the JSON body into req. An empty body leaves req zero.
func parseBody(c *fiber.Ctx, req any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(req)
}

// requireWebSocket rejects plain HTTP requests to streaming routes.
func requireWebSocket(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return models.RespondWithError(c, fiber.StatusUpgradeRequired,
			models.NewValidationError("WebSocket upgrade required"))
	}
	return c.Next()
}
