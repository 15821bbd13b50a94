package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tigersaymon/lfg-teammate-finder/internal/service"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Permission failures are 403, deliberately distinct from 404, so clients
// can tell "not yours" from "gone". Eligibility failures carry a redirect
// hint to profile creation instead of a bare error.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case service.IsEligibilityError(err):
		c.JSON(http.StatusForbidden, gin.H{
			"error":    err.Error(),
			"code":     "profile_required",
			"redirect": "/api/v1/profiles",
		})
	case service.IsPermissionError(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case service.IsConflictError(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSizeOutOfRange), errors.Is(err, service.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
