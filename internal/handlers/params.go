package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/todorace-api/internal/errors"
	"github.com/yukikurage/todorace-api/internal/middleware"
	"github.com/yukikurage/todorace-api/internal/models"
)

// parseIDParam reads a numeric path parameter, responding 400 when it is malformed.
func parseIDParam(c *gin.Context, name, message string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, message)
		return 0, false
	}
	return id, true
}

// currentUserID responds 401 when the request carries no authenticated user.
func currentUserID(c *gin.Context) (uint64, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, false
	}
	return userID, true
}

// parseStatusQuery reads an optional ?status= join request filter.
func parseStatusQuery(c *gin.Context) (*models.JoinRequestStatus, bool) {
	raw := c.Query("status")
	if raw == "" {
		return nil, true
	}
	status := models.JoinRequestStatus(raw)
	if !status.Valid() {
		apierrors.BadRequest(c, "status must be pending, accepted or rejected")
		return nil, false
	}
	return &status, true
}
