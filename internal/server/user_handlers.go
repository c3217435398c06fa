package server

import (
	"farmsphere/internal/serialize"
	"farmsphere/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createUserRequest struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
	IsActive *bool   `json:"isActive"`
}

// CreateUser godoc
// @Summary Create or fetch a user
// @Description Returns the stored user when userId already exists.
// @Tags users
// @Accept json
// @Produce json
// @Param user body createUserRequest true "User"
// @Success 200 {object} map[string]any "existing user"
// @Success 201 {object} map[string]any "new user"
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/users [post]
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c)
	}

	user, created, err := s.userService.CreateOrGetUser(c.UserContext(), service.CreateUserInput{
		UserID:   req.UserID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
	})
	if err != nil {
		return respondError(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(serialize.Record(user))
}

// GetUser handles GET /api/users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	user, err := s.userService.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(serialize.Record(user))
}

// UpdateUser handles PATCH /api/users/:id
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	var req updateUserRequest
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c)
	}

	user, err := s.userService.UpdateUser(c.UserContext(), c.Params("id"), service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
		IsActive: req.IsActive,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(serialize.Record(user))
}
