package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todorace-api/internal/dto"
	apierrors "github.com/yukikurage/todorace-api/internal/errors"
	"github.com/yukikurage/todorace-api/internal/middleware"
	"github.com/yukikurage/todorace-api/internal/services"
)

type RaceHandler struct {
	raceService *services.RaceService
}

func NewRaceHandler(raceService *services.RaceService) *RaceHandler {
	return &RaceHandler{raceService: raceService}
}

// GetRace returns the race standings of the group loaded by
// RequireGroupMember.
func (h *RaceHandler) GetRace(c *gin.Context) {
	group, ok := middleware.GetGroup(c)
	if !ok {
		apierrors.InternalError(c, "Group not loaded")
		return
	}

	participants, err := h.raceService.RaceForGroup(group)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRaceDTO(group.ID, participants))
}
