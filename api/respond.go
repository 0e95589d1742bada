package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skyfare/airline-service/internal/domain"
)

// pageResponse is the list envelope: total row count plus the current page.
type pageResponse struct {
	Count   int         `json:"count"`
	Results interface{} `json:"results"`
}

// Paginator turns ?page and ?page_size query params into SQL limits.
type Paginator struct {
	PageSize    int
	MaxPageSize int
}

func (p Paginator) Limits(c *gin.Context) (limit, offset int) {
	size := p.PageSize
	if raw := c.Query("page_size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			size = v
		}
	}
	if size > p.MaxPageSize {
		size = p.MaxPageSize
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	return size, (page - 1) * size
}

func paginated(c *gin.Context, count int, results interface{}) {
	c.JSON(http.StatusOK, pageResponse{Count: count, Results: results})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// writeError maps domain errors onto HTTP statuses. Validation failures
// come back keyed by the offending field, the way clients expect.
func writeError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{ve.Field: ve.Message})
		return
	}

	var conflict *domain.SeatConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusBadRequest, gin.H{"tickets": conflict.Error()})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
	case errors.Is(err, domain.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"email": "a user with this email already exists"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": "you do not have permission to perform this action"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
