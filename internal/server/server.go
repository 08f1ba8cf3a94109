package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"obradoc/internal/auth"
	"obradoc/internal/config"
	"obradoc/internal/middleware"
	"obradoc/internal/notify"
	"obradoc/pkg/storage"
)

// Server represents the HTTP server
type Server struct {
	cfg      *config.Config
	router   *gin.Engine
	mongo    *mongo.Client
	outbox   *notify.Outbox
	shutdown context.CancelFunc
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	mongoClient, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	db := mongoClient.Database(cfg.Mongo.Database)

	store, err := storage.NewMinioStorage(cfg.Minio)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}

	repos := InitRepositories(db)
	infra := InitInfra(cfg, repos)
	services := InitServices(cfg, repos, store, infra)
	handlers := InitHandlers(services, infra)

	if err := PopulateInitialData(cfg, repos); err != nil {
		return nil, fmt.Errorf("failed to populate initial data: %w", err)
	}

	router := setupRouter(cfg, handlers)

	ctx, cancel := context.WithCancel(context.Background())
	infra.Outbox.Start(ctx)

	return &Server{
		cfg:      cfg,
		router:   router,
		mongo:    mongoClient,
		outbox:   infra.Outbox,
		shutdown: cancel,
	}, nil
}

func Connect(cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// Close stops the notification dispatcher and disconnects MongoDB.
func (s *Server) Close() error {
	if s.shutdown != nil {
		s.shutdown()
	}
	if s.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.mongo.Disconnect(ctx)
	}
	return nil
}

// Run starts the server
func (s *Server) Run() error {
	fmt.Printf("🏗️  ObraDoc Server running on %s\n", s.cfg.Server.Address())
	return s.router.Run(s.cfg.Server.Address())
}

func setupRouter(cfg *config.Config, h *Handlers) *gin.Engine {
	r := gin.Default()
	r.SetTrustedProxies(nil)

	api := r.Group("/api")

	// Public routes
	api.GET("/version", h.Version)
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/invitations/accept", h.Invitation.Accept)
	api.GET("/plans", h.Org.Plans)

	// Everything else requires a valid token
	protected := api.Group("")
	protected.Use(middleware.Auth(cfg))

	protected.GET("/auth/me", h.Auth.Me)
	protected.POST("/auth/setup-owner", h.Auth.SetupOwner)

	documents := protected.Group("/documents")
	{
		documents.POST("", h.Document.Upload)
		documents.POST("/search", h.Document.Search)
		documents.GET("/:id", h.Document.Get)
		documents.GET("/:id/content", h.Document.Content)
		documents.DELETE("/:id", h.Document.Delete)
	}

	workers := protected.Group("/workers")
	{
		workers.GET("", h.Worker.List)
		workers.POST("", h.Worker.Create)
		workers.GET("/:id", h.Worker.Get)
		workers.PUT("/:id", h.Worker.Update)
		workers.DELETE("/:id", h.Worker.Delete)
		workers.GET("/:id/documents", h.Worker.Documents)
		workers.GET("/:id/archive", h.Worker.Archive)
		workers.POST("/:id/projects/:projectId", h.Worker.AssignProject)
		workers.DELETE("/:id/projects/:projectId", h.Worker.RemoveProject)
	}

	projects := protected.Group("/projects")
	{
		projects.GET("", h.Project.List)
		projects.POST("", h.Project.Create)
		projects.GET("/:id", h.Project.Get)
		projects.PUT("/:id", h.Project.Update)
		projects.DELETE("/:id", h.Project.Delete)
		projects.GET("/:id/workers", h.Project.Workers)
	}

	notifications := protected.Group("/notifications")
	{
		notifications.GET("", h.Notification.List)
		notifications.GET("/unread", h.Notification.UnreadCount)
		notifications.GET("/stream", h.Notification.Stream)
		notifications.POST("/:id/read", h.Notification.MarkRead)
	}

	users := protected.Group("/users")
	users.Use(middleware.RequirePermission(auth.CapManageUsers))
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.PUT("/:id", h.User.Update)
		users.DELETE("/:id", h.User.Delete)
	}

	invitations := protected.Group("/invitations")
	invitations.Use(middleware.RequirePermission(auth.CapManageUsers))
	{
		invitations.GET("", h.Invitation.List)
		invitations.POST("", h.Invitation.Create)
	}

	orgs := protected.Group("/orgs")
	{
		orgs.GET("/me", h.Org.Me)
		orgs.GET("/me/usage", h.Org.Usage)
		orgs.GET("/me/dashboard", h.Org.Dashboard)
	}

	admin := protected.Group("/admin")
	admin.Use(middleware.RequirePermission(auth.CapManageSubscriptions))
	{
		admin.GET("/orgs", h.Org.ListAll)
		admin.PUT("/orgs/:id/status", h.Org.SetStatus)
	}

	return r
}
