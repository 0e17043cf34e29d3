// README: HTTP helper utilities for JSON and error mapping.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"drivehire/internal/modules/booking"
	"drivehire/internal/modules/driver"
	"drivehire/internal/modules/user"
	"drivehire/internal/types"
)

func respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrInvalidInput), errors.Is(err, booking.ErrUnknownAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrNotFound), errors.Is(err, driver.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrDuplicate),
		errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, driver.ErrUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func respondAccountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrBadRequest), errors.Is(err, driver.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, user.ErrCredentials), errors.Is(err, driver.ErrCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, user.ErrNotFound), errors.Is(err, driver.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, user.ErrExists), errors.Is(err, driver.ErrExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func pathID(c *gin.Context, name string) (types.ID, bool) {
	raw, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || raw <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return types.ID(raw), true
}
