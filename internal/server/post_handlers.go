package server

import (
	"farmsphere/internal/serialize"
	"farmsphere/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	ID       string   `json:"id"`
	AuthorID string   `json:"authorId"`
	Author   string   `json:"author"`
	Content  string   `json:"content"`
	Location string   `json:"location"`
	Tags     []string `json:"tags"`
	Image    *string  `json:"image"`
}

type toggleRequest struct {
	UserID string `json:"userId"`
}

// GetPosts godoc
// @Summary Paginated feed
// @Tags posts
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size, at most 100"
// @Success 200 {object} map[string]any
// @Router /api/posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := s.parsePagination(c, service.DefaultPageLimit)

	res, err := s.postService.ListPosts(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts": serialize.Records(res.Posts),
		"total": res.Total,
		"page":  res.Page,
		"limit": res.Limit,
	})
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c)
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		ID:       req.ID,
		AuthorID: req.AuthorID,
		Author:   req.Author,
		Content:  req.Content,
		Location: req.Location,
		Tags:     req.Tags,
		Image:    req.Image,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(serialize.Record(post))
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(serialize.Record(post))
}

// DeletePost godoc
// @Summary Delete a post
// @Description Removes the post with its comments, likes and saves.
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.ErrorResponse
// @Router /api/posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.postService.DeletePost(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

// ToggleLike godoc
// @Summary Like or unlike a post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param body body toggleRequest true "Liker"
// @Success 200 {object} map[string]any
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/posts/{id}/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	var req toggleRequest
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c)
	}

	liked, likes, err := s.postService.ToggleLike(c.UserContext(), c.Params("id"), req.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"liked": liked, "likes": likes})
}

// GetLikes handles GET /api/posts/:id/likes
func (s *Server) GetLikes(c *fiber.Ctx) error {
	likes, err := s.postService.ListLikes(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"likes": serialize.Records(likes)})
}

// ToggleSave handles POST /api/posts/:id/save
func (s *Server) ToggleSave(c *fiber.Ctx) error {
	var req toggleRequest
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c)
	}

	saved, err := s.postService.ToggleSave(c.UserContext(), c.Params("id"), req.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"saved": saved})
}

// GetSavedPosts handles GET /api/users/:id/saved-posts
func (s *Server) GetSavedPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListSavedPosts(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": serialize.Records(posts)})
}
