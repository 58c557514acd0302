package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todorace-api/internal/dto"
	apierrors "github.com/yukikurage/todorace-api/internal/errors"
	"github.com/yukikurage/todorace-api/internal/services"
	"github.com/yukikurage/todorace-api/internal/utils"
)

type GroupHandler struct {
	groupService *services.GroupService
}

func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// CreateGroup creates a group owned by the current user
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type CreateGroupRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	group, err := h.groupService.CreateGroup(services.CreateGroupInput{
		Name:      req.Name,
		CreatorID: userID,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToGroupDTO(*group))
}

// ListGroups returns the groups the current user has joined
func (h *GroupHandler) ListGroups(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	groups, err := h.groupService.ListGroupsForUser(userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupDTOs(groups))
}

// SearchGroups finds groups by name so users can ask to join them
func (h *GroupHandler) SearchGroups(c *gin.Context) {
	page := utils.GetPaginationParams(c)

	groups, total, err := h.groupService.SearchGroups(c.Query("q"), page)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.GroupSearchResponse{
		Groups:     dto.ToGroupDTOs(groups),
		Pagination: page.Response(total),
	})
}

// GetGroup returns a group with its members
func (h *GroupHandler) GetGroup(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id", "Invalid group ID")
	if !ok {
		return
	}

	group, err := h.groupService.GetGroup(groupID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupDTO(*group))
}
