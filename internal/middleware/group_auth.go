package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/todorace-api/internal/errors"
	"github.com/yukikurage/todorace-api/internal/models"
	"github.com/yukikurage/todorace-api/internal/services"
)

const contextKeyGroup = "group"

// RequireGroupMember checks that the user is an accepted member of the group
// named by the :id parameter and stores the group in the context.
func RequireGroupMember(groups *services.GroupService) gin.HandlerFunc {
	return func(c *gin.Context) {
		groupID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid group ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		group, err := groups.GetGroupForMember(groupID, userID)
		if err != nil {
			apierrors.Respond(c, err)
			c.Abort()
			return
		}

		c.Set(contextKeyGroup, group)
		c.Next()
	}
}

// GetGroup returns the group loaded by RequireGroupMember.
func GetGroup(c *gin.Context) (*models.Group, bool) {
	v, exists := c.Get(contextKeyGroup)
	if !exists {
		return nil, false
	}
	group, ok := v.(*models.Group)
	return group, ok
}
