package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todorace-api/internal/dto"
	apierrors "github.com/yukikurage/todorace-api/internal/errors"
	"github.com/yukikurage/todorace-api/internal/membership"
	"github.com/yukikurage/todorace-api/internal/services"
)

type JoinRequestHandler struct {
	requestService *services.JoinRequestService
}

func NewJoinRequestHandler(requestService *services.JoinRequestService) *JoinRequestHandler {
	return &JoinRequestHandler{requestService: requestService}
}

// SubmitJoinRequest asks to join the group in :id
func (h *JoinRequestHandler) SubmitJoinRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "id", "Invalid group ID")
	if !ok {
		return
	}

	request, err := h.requestService.SubmitJoinRequest(c.Request.Context(), groupID, userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToJoinRequestDTO(*request))
}

// ListGroupJoinRequests lists requests to the group in :id for its creator
func (h *JoinRequestHandler) ListGroupJoinRequests(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "id", "Invalid group ID")
	if !ok {
		return
	}
	status, ok := parseStatusQuery(c)
	if !ok {
		return
	}

	requests, err := h.requestService.ListForGroup(groupID, userID, status)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJoinRequestDTOs(requests))
}

// ListMyJoinRequests lists the current user's requests
func (h *JoinRequestHandler) ListMyJoinRequests(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	status, ok := parseStatusQuery(c)
	if !ok {
		return
	}

	requests, err := h.requestService.ListForUser(userID, status)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJoinRequestDTOs(requests))
}

// GetJoinRequest returns a single request
func (h *JoinRequestHandler) GetJoinRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "id", "Invalid join request ID")
	if !ok {
		return
	}

	request, err := h.requestService.GetJoinRequest(requestID, userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJoinRequestDTO(*request))
}

// AcceptJoinRequest and RejectJoinRequest resolve a pending request
func (h *JoinRequestHandler) AcceptJoinRequest(c *gin.Context) {
	h.resolve(c, membership.DecisionAccept)
}

func (h *JoinRequestHandler) RejectJoinRequest(c *gin.Context) {
	h.resolve(c, membership.DecisionReject)
}

type resolveRequest struct {
	Decision string `json:"decision" binding:"required"`
}

// ResolveJoinRequest resolves a pending request with the decision in the body
func (h *JoinRequestHandler) ResolveJoinRequest(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	decision, err := membership.ParseDecision(req.Decision)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	h.resolve(c, decision)
}

func (h *JoinRequestHandler) resolve(c *gin.Context, decision membership.Decision) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "id", "Invalid join request ID")
	if !ok {
		return
	}

	request, err := h.requestService.ResolveJoinRequest(c.Request.Context(), requestID, userID, decision)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJoinRequestDTO(*request))
}

// WithdrawJoinRequest deletes the current user's pending request
func (h *JoinRequestHandler) WithdrawJoinRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "id", "Invalid join request ID")
	if !ok {
		return
	}

	if err := h.requestService.WithdrawJoinRequest(c.Request.Context(), requestID, userID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
