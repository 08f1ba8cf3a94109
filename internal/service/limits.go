package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"obradoc/internal/auth"
	"obradoc/internal/config"
	"obradoc/internal/model"
	"obradoc/internal/repository"
)

// OrgUsage is the current resource consumption of an organization.
type OrgUsage struct {
	Workers  int64 `json:"workers"`
	Projects int64 `json:"projects"`
}

// LimitService enforces plan quotas. Counts are cached in Redis with a short
// TTL when a cache is configured; without one every check hits the database.
type LimitService struct {
	orgs     repository.IOrgRepository
	plans    repository.IPlanRepository
	workers  repository.IWorkerRepository
	projects repository.IProjectRepository
	cache    *redis.Client
	notify   Notifier
}

func NewLimitService(orgs repository.IOrgRepository, plans repository.IPlanRepository, workers repository.IWorkerRepository, projects repository.IProjectRepository, cache *redis.Client, notifier Notifier) *LimitService {
	return &LimitService{orgs: orgs, plans: plans, workers: workers, projects: projects, cache: cache, notify: notifier}
}

// CheckWorkerQuota fails with a validation error when the org is at its
// plan's worker limit.
func (s *LimitService) CheckWorkerQuota(ctx context.Context, session *auth.Session) error {
	plan, err := s.planFor(ctx, session.OrgID)
	if err != nil {
		return err
	}
	if plan == nil || plan.Features.MaxWorkers <= 0 {
		return nil
	}
	usage, err := s.Usage(ctx, session.OrgID)
	if err != nil {
		return err
	}
	if usage.Workers >= int64(plan.Features.MaxWorkers) {
		s.notifyLimit(session, "trabajadores", plan.Features.MaxWorkers)
		return validationError(fmt.Sprintf("worker limit of %d reached for the current plan", plan.Features.MaxWorkers))
	}
	return nil
}

// CheckProjectQuota fails with a validation error when the org is at its
// plan's project limit.
func (s *LimitService) CheckProjectQuota(ctx context.Context, session *auth.Session) error {
	plan, err := s.planFor(ctx, session.OrgID)
	if err != nil {
		return err
	}
	if plan == nil || plan.Features.MaxProjects <= 0 {
		return nil
	}
	usage, err := s.Usage(ctx, session.OrgID)
	if err != nil {
		return err
	}
	if usage.Projects >= int64(plan.Features.MaxProjects) {
		s.notifyLimit(session, "obras", plan.Features.MaxProjects)
		return validationError(fmt.Sprintf("project limit of %d reached for the current plan", plan.Features.MaxProjects))
	}
	return nil
}

// Usage returns the org's current counts, served from cache when fresh.
func (s *LimitService) Usage(ctx context.Context, orgID primitive.ObjectID) (*OrgUsage, error) {
	if s.cache != nil {
		if usage := s.cachedUsage(ctx, orgID); usage != nil {
			return usage, nil
		}
	}

	workers, err := s.workers.CountByOrg(ctx, orgID)
	if err != nil {
		return nil, backendError("failed to count workers", err)
	}
	projects, err := s.projects.CountByOrg(ctx, orgID)
	if err != nil {
		return nil, backendError("failed to count projects", err)
	}
	usage := &OrgUsage{Workers: workers, Projects: projects}

	if s.cache != nil {
		s.storeUsage(ctx, orgID, usage)
	}
	return usage, nil
}

// InvalidateUsage drops the cached counts after a create or delete.
func (s *LimitService) InvalidateUsage(ctx context.Context, orgID primitive.ObjectID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, usageKey(orgID)).Err(); err != nil {
		log.Printf("[limits] cache invalidation failed for %s: %v", orgID.Hex(), err)
	}
}

func (s *LimitService) planFor(ctx context.Context, orgID primitive.ObjectID) (*model.Plan, error) {
	org, err := s.orgs.FindByID(ctx, orgID)
	if err != nil {
		return nil, backendError("failed to load organization", err)
	}
	if org == nil || org.PlanID == "" {
		return nil, nil
	}
	plan, err := s.plans.FindByKey(ctx, org.PlanID)
	if err != nil {
		return nil, backendError("failed to load plan", err)
	}
	return plan, nil
}

func (s *LimitService) cachedUsage(ctx context.Context, orgID primitive.ObjectID) *OrgUsage {
	vals, err := s.cache.HGetAll(ctx, usageKey(orgID)).Result()
	if err != nil || len(vals) == 0 {
		return nil
	}
	var usage OrgUsage
	if _, err := fmt.Sscanf(vals["workers"], "%d", &usage.Workers); err != nil {
		return nil
	}
	if _, err := fmt.Sscanf(vals["projects"], "%d", &usage.Projects); err != nil {
		return nil
	}
	return &usage
}

func (s *LimitService) storeUsage(ctx context.Context, orgID primitive.ObjectID, usage *OrgUsage) {
	key := usageKey(orgID)
	pipe := s.cache.Pipeline()
	pipe.HSet(ctx, key, "workers", usage.Workers, "projects", usage.Projects)
	pipe.Expire(ctx, key, time.Duration(config.UsageCacheTTLSeconds)*time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[limits] cache write failed for %s: %v", orgID.Hex(), err)
	}
}

func (s *LimitService) notifyLimit(session *auth.Session, resource string, limit int) {
	if s.notify == nil {
		return
	}
	s.notify.Enqueue(&model.Notification{
		Type:    model.NotifLimitExceeded,
		Title:   "Límite del Plan Alcanzado",
		Message: fmt.Sprintf("Alcanzaste el límite de %d %s de tu plan", limit, resource),
		UserID:  session.UserID,
	})
}

func usageKey(orgID primitive.ObjectID) string {
	return "org:usage:" + orgID.Hex()
}
