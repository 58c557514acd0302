package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todorace-api/internal/middleware"
	"github.com/yukikurage/todorace-api/internal/services"
)

// Handlers bundles every HTTP handler of the API.
type Handlers struct {
	Auth        *AuthHandler
	Group       *GroupHandler
	JoinRequest *JoinRequestHandler
	Task        *TaskHandler
	Race        *RaceHandler
	Realtime    *RealtimeHandler
}

// RegisterRoutes mounts the API on r. Session middleware must already be installed.
func RegisterRoutes(r gin.IRouter, h Handlers, groupService *services.GroupService) {
	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "TodoRace API is running",
		})
	})

	// Authenticated by ticket, not session
	r.GET("/ws", h.Realtime.ServeWS)

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", middleware.RequireAuth(), h.Auth.GetCurrentUser)
		}

		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("/:id", h.Auth.GetUser)
			users.GET("/username/:username", h.Auth.GetUserByUsername)
		}

		groups := api.Group("/groups")
		groups.Use(middleware.RequireAuth())
		{
			groups.POST("", h.Group.CreateGroup)
			groups.GET("", h.Group.ListGroups)
			groups.GET("/search", h.Group.SearchGroups)
			groups.GET("/:id", h.Group.GetGroup)
			groups.GET("/:id/race", middleware.RequireGroupMember(groupService), h.Race.GetRace)
			groups.GET("/:id/join-requests", h.JoinRequest.ListGroupJoinRequests)
			groups.POST("/:id/join-requests", h.JoinRequest.SubmitJoinRequest)
			groups.GET("/:id/tasks", middleware.RequireGroupMember(groupService), h.Task.ListTasks)
			groups.POST("/:id/tasks", middleware.RequireGroupMember(groupService), h.Task.CreateTask)
			groups.POST("/:id/tasks/suggest", middleware.RequireGroupMember(groupService), h.Task.SuggestTasks)
		}

		requests := api.Group("/join-requests")
		requests.Use(middleware.RequireAuth())
		{
			requests.GET("", h.JoinRequest.ListMyJoinRequests)
			requests.GET("/:id", h.JoinRequest.GetJoinRequest)
			requests.POST("/:id/accept", h.JoinRequest.AcceptJoinRequest)
			requests.POST("/:id/reject", h.JoinRequest.RejectJoinRequest)
			requests.POST("/:id/resolve", h.JoinRequest.ResolveJoinRequest)
			requests.DELETE("/:id", h.JoinRequest.WithdrawJoinRequest)
		}

		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.PATCH("/:id/toggle", h.Task.ToggleTask)
			tasks.DELETE("/:id", h.Task.DeleteTask)
		}

		realtime := api.Group("/realtime")
		realtime.Use(middleware.RequireAuth())
		{
			realtime.GET("/ticket", h.Realtime.IssueTicket)
		}
	}
}
