// Package service holds the request-level logic between handlers and
// repositories: validation, identifier assignment and orchestration.
package service

import (
	"math"
	"time"

	"farmsphere/internal/models"
	"farmsphere/internal/repository"

	"github.com/google/uuid"
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// newID returns id, or a random UUID when the caller supplied none.
func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// Default and maximum page sizes.
const (
	DefaultPageLimit = 20
	DefaultChatLimit = 50
	MaxPageLimit     = 100

	// MaxOffset caps the row offset a page can ask for. Pages beyond it read
	// as empty instead of overflowing the multiplication.
	MaxOffset = math.MaxInt32
)

// Pagination is a 1-based page request.
type Pagination struct {
	Page  int
	Limit int
}

// Window converts p into an offset/limit window.
func (p Pagination) Window() repository.Page {
	if p.Page <= 1 || p.Limit <= 0 {
		return repository.Page{Limit: p.Limit}
	}
	if p.Page-1 > MaxOffset/p.Limit {
		return repository.Page{Limit: p.Limit, Offset: MaxOffset}
	}
	return repository.Page{Limit: p.Limit, Offset: (p.Page - 1) * p.Limit}
}

// NormalizePagination fills defaults and clamps limit to [1, max].
func NormalizePagination(page, limit, defaultLimit, max int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if max > 0 && limit > max {
		limit = max
	}
	return Pagination{Page: page, Limit: limit}
}

// firstError returns the first non-nil failure as a VALIDATION_ERROR.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return models.NewValidationError(err.Error())
		}
	}
	return nil
}
