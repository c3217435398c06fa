package server

import (
	"farmsphere/internal/serialize"
	"farmsphere/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Content  string `json:"content"`
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListComments(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"comments": serialize.Records(comments)})
}

// CreateComment godoc
// @Summary Comment on a post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param comment body createCommentRequest true "Comment"
// @Success 201 {object} map[string]any
// @Failure 404 {object} models.ErrorResponse
// @Router /api/posts/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req createCommentRequest
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c)
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		ID:       req.ID,
		PostID:   c.Params("id"),
		UserID:   req.UserID,
		UserName: req.UserName,
		Content:  req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(serialize.Record(comment))
}
