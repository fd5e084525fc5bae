package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/breakfast4u/breakfast4u-api/services"
)

// handleServiceError maps a service-layer error onto the response envelope.
// Domain failures surface their message; anything else becomes a generic 500
// with the detail logged server-side only.
func handleServiceError(c *gin.Context, err error) {
	var notFound *services.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": notFound.Message})
		return
	}

	var forbidden *services.ForbiddenError
	if errors.As(err, &forbidden) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": forbidden.Message})
		return
	}

	var invalidState *services.InvalidStateError
	if errors.As(err, &invalidState) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": invalidState.Message})
		return
	}

	log.Printf("Unexpected error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
}

// parseIDParam parses a numeric path parameter, responding 400 on garbage.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid " + name + " parameter",
		})
		return 0, false
	}
	return uint(id), true
}

// validationFailed responds with the standard 400 envelope for a malformed
// request body.
func validationFailed(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Validation failed",
		"errors":  err.Error(),
	})
}
