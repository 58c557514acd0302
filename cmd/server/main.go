package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/todorace-api/internal/config"
	"github.com/yukikurage/todorace-api/internal/constants"
	"github.com/yukikurage/todorace-api/internal/database"
	"github.com/yukikurage/todorace-api/internal/handlers"
	"github.com/yukikurage/todorace-api/internal/middleware"
	"github.com/yukikurage/todorace-api/internal/notify"
	"github.com/yukikurage/todorace-api/internal/repository"
	"github.com/yukikurage/todorace-api/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(sessions.Sessions(constants.SessionCookieName, newSessionStore(cfg)))

	// Notifications: local hub, fanned out through Redis when configured
	hub := notify.NewHub(notify.DefaultHubConfig())
	defer hub.Close()

	var notifier notify.Notifier = hub
	if addr := cfg.RedisAddr(); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.RedisPassword,
		})
		defer client.Close()

		broker := notify.NewRedisBroker(client, cfg.Realtime.Channel, hub, notify.ReconnectPolicy{
			MaxAttempts:     cfg.Realtime.ReconnectAttempts,
			InitialInterval: cfg.Realtime.ReconnectDelay,
			MaxInterval:     cfg.Realtime.ReconnectMaxDelay,
		})
		go func() {
			if err := broker.Run(ctx); err != nil {
				log.Printf("Notification broker stopped, delivering to local sessions only: %v", err)
			}
		}()
		notifier = broker
	}

	// Initialize AI service
	var suggester services.TaskSuggester
	if cfg.OpenAIAPIKey != "" {
		suggester = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Repositories and services
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	requestRepo := repository.NewJoinRequestRepository(db)

	authService := services.NewAuthService(userRepo)
	groupService := services.NewGroupService(groupRepo, userRepo)
	requestService := services.NewJoinRequestService(requestRepo, groupRepo, userRepo, notifier)
	taskService := services.NewTaskService(taskRepo, groupRepo, suggester, notifier)
	raceService := services.NewRaceService(groupRepo, taskRepo)

	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Group:       handlers.NewGroupHandler(groupService),
		JoinRequest: handlers.NewJoinRequestHandler(requestService),
		Task:        handlers.NewTaskHandler(taskService),
		Race:        handlers.NewRaceHandler(raceService),
		Realtime:    handlers.NewRealtimeHandler(hub, notify.NewTickets(cfg.Realtime.TicketSecret, cfg.Realtime.TicketTTL)),
	}, groupService)

	// Start server
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}
	go func() {
		log.Printf("Server starting on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	// Websocket sessions are hijacked and not tracked by Shutdown.
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
}

// newSessionStore keeps sessions in Redis when it is configured, and in
// signed cookies otherwise.
func newSessionStore(cfg *config.Config) sessions.Store {
	var store sessions.Store
	if addr := cfg.RedisAddr(); addr != "" {
		rs, err := redisStore.NewStore(
			10,    // Redis pool size
			"tcp", // network type
			addr,
			"", // username (empty for default user)
			cfg.RedisPassword,
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			log.Fatalf("Failed to create Redis store: %v", err)
		}
		store = rs
	} else {
		log.Println("REDIS_HOST not set, storing sessions in cookies")
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	// Configure session options based on environment
	isProduction := cfg.GinMode == gin.ReleaseMode
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}
