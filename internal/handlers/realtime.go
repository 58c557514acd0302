package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	apierrors "github.com/yukikurage/todorace-api/internal/errors"
	"github.com/yukikurage/todorace-api/internal/notify"
)

// RealtimeHandler hands out connection tickets and upgrades /ws connections
// into notification sessions.
type RealtimeHandler struct {
	hub      *notify.Hub
	tickets  *notify.Tickets
	upgrader websocket.Upgrader
}

func NewRealtimeHandler(hub *notify.Hub, tickets *notify.Tickets) *RealtimeHandler {
	return &RealtimeHandler{
		hub:     hub,
		tickets: tickets,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Connections authenticate with a ticket, not the session cookie,
			// so cross-origin clients are allowed.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// IssueTicket returns a short-lived ticket for opening /ws.
func (h *RealtimeHandler) IssueTicket(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ticket, expiresAt, err := h.tickets.Issue(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue ticket")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ticket":    ticket,
		"expiresAt": expiresAt,
	})
}

// ServeWS upgrades the connection and streams the user's notifications until
// either side closes it.
func (h *RealtimeHandler) ServeWS(c *gin.Context) {
	userID, err := h.tickets.Verify(c.Query("ticket"))
	if err != nil {
		apierrors.Unauthorized(c, "Invalid or expired ticket")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed for user %d: %v", userID, err)
		return
	}

	session, err := h.hub.Register(userID, conn)
	if err != nil {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}

	session.Serve()
}
