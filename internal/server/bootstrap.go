package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"obradoc/internal/config"
	"obradoc/internal/handler"
	"obradoc/internal/model"
	"obradoc/internal/notify"
	"obradoc/internal/repository"
	"obradoc/internal/service"
	"obradoc/internal/version"
	"obradoc/pkg/storage"
)

// Repositories bundles every persistence interface.
type Repositories struct {
	Users         repository.IUserRepository
	Orgs          repository.IOrgRepository
	Workers       repository.IWorkerRepository
	Projects      repository.IProjectRepository
	Documents     repository.IDocumentRepository
	Notifications repository.INotificationRepository
	Invitations   repository.IInvitationRepository
	Plans         repository.IPlanRepository
	Admins        repository.IAdminRepository
}

// Infra bundles the cross-cutting infrastructure: the notification outbox,
// the websocket hub and the optional Redis and Kafka clients.
type Infra struct {
	Outbox *notify.Outbox
	Hub    *notify.Hub
	Redis  *redis.Client
}

// Services bundles the application services.
type Services struct {
	Auth          *service.AuthService
	Documents     *service.DocumentService
	Search        *service.SearchService
	Workers       *service.WorkerService
	Projects      *service.ProjectService
	Notifications *service.NotificationService
	Users         *service.UserService
	Orgs          *service.OrgService
	Invitations   *service.InvitationService
	Limits        *service.LimitService
	Downloads     *service.DownloadService
	Stats         *service.StatsService
}

// Handlers bundles the HTTP handlers.
type Handlers struct {
	Auth         *handler.AuthHandler
	Document     *handler.DocumentHandler
	Worker       *handler.WorkerHandler
	Project      *handler.ProjectHandler
	Notification *handler.NotificationHandler
	User         *handler.UserHandler
	Org          *handler.OrgHandler
	Invitation   *handler.InvitationHandler
	Version      gin.HandlerFunc
}

// InitRepositories wires every repository onto the database.
func InitRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Users:         repository.NewUserRepository(db),
		Orgs:          repository.NewOrgRepository(db),
		Workers:       repository.NewWorkerRepository(db),
		Projects:      repository.NewProjectRepository(db),
		Documents:     repository.NewDocumentRepository(db),
		Notifications: repository.NewNotificationRepository(db),
		Invitations:   repository.NewInvitationRepository(db),
		Plans:         repository.NewPlanRepository(db),
		Admins:        repository.NewAdminRepository(db),
	}
}

// InitInfra builds the outbox and its optional backends. Redis and Kafka are
// skipped entirely when unconfigured.
func InitInfra(cfg *config.Config, repos *Repositories) *Infra {
	hub := notify.NewHub()

	var publisher notify.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = notify.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Printf("[server] mirroring notifications to kafka topic %s", cfg.Kafka.Topic)
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	return &Infra{
		Outbox: notify.NewOutbox(cfg.Notifier.QueueSize, repos.Notifications, publisher, hub),
		Hub:    hub,
		Redis:  redisClient,
	}
}

// InitServices wires the application services.
func InitServices(cfg *config.Config, repos *Repositories, store storage.ObjectStorage, infra *Infra) *Services {
	limits := service.NewLimitService(repos.Orgs, repos.Plans, repos.Workers, repos.Projects, infra.Redis, infra.Outbox)
	documents := service.NewDocumentService(repos.Documents, repos.Workers, store, infra.Outbox, cfg)

	return &Services{
		Auth:          service.NewAuthService(repos.Users, repos.Orgs, repos.Admins, cfg),
		Documents:     documents,
		Search:        service.NewSearchService(repos.Documents, repos.Workers, documents),
		Workers:       service.NewWorkerService(repos.Workers, repos.Projects, repos.Documents, store, limits),
		Projects:      service.NewProjectService(repos.Projects, repos.Workers, repos.Users, limits),
		Notifications: service.NewNotificationService(repos.Notifications),
		Users:         service.NewUserService(repos.Users, repos.Orgs),
		Orgs:          service.NewOrgService(repos.Orgs, repos.Plans),
		Invitations:   service.NewInvitationService(repos.Invitations, repos.Users, repos.Orgs),
		Limits:        limits,
		Downloads:     service.NewDownloadService(documents, store, cfg),
		Stats:         service.NewStatsService(repos.Documents, repos.Workers, repos.Projects, documents),
	}
}

// InitHandlers wires the HTTP handlers.
func InitHandlers(s *Services, infra *Infra) *Handlers {
	return &Handlers{
		Auth:         handler.NewAuthHandler(s.Auth),
		Document:     handler.NewDocumentHandler(s.Documents, s.Search),
		Worker:       handler.NewWorkerHandler(s.Workers, s.Documents, s.Downloads),
		Project:      handler.NewProjectHandler(s.Projects, s.Workers),
		Notification: handler.NewNotificationHandler(s.Notifications, infra.Hub),
		User:         handler.NewUserHandler(s.Users),
		Org:          handler.NewOrgHandler(s.Orgs, s.Limits, s.Stats),
		Invitation:   handler.NewInvitationHandler(s.Invitations),
		Version: func(c *gin.Context) {
			c.JSON(http.StatusOK, model.NewSuccessResponse("", version.Get()))
		},
	}
}

// defaultPlans seeds the subscription tiers on first boot.
var defaultPlans = []*model.Plan{
	{
		Key:      "basic",
		Name:     "Básico",
		Price:    29,
		Currency: "USD",
		Interval: "month",
		Features: model.PlanFeatures{MaxWorkers: 25, MaxProjects: 3, MaxViewers: 2, StorageLimitGB: 5},
	},
	{
		Key:      "professional",
		Name:     "Profesional",
		Price:    79,
		Currency: "USD",
		Interval: "month",
		Features: model.PlanFeatures{MaxWorkers: 100, MaxProjects: 10, MaxViewers: 10, StorageLimitGB: 25},
	},
	{
		Key:      "enterprise",
		Name:     "Empresarial",
		Price:    199,
		Currency: "USD",
		Interval: "month",
		Features: model.PlanFeatures{}, // unlimited
	},
}

// PopulateInitialData inserts the stock plans when missing.
func PopulateInitialData(cfg *config.Config, repos *Repositories) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, plan := range defaultPlans {
		existing, err := repos.Plans.FindByKey(ctx, plan.Key)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := repos.Plans.Create(ctx, plan); err != nil {
			return err
		}
		log.Printf("[server] seeded plan %s", plan.Key)
	}
	return nil
}
