package service

import (
	"context"
	"time"

	"obradoc/internal/auth"
	"obradoc/internal/repository"
	"obradoc/internal/status"
	"obradoc/pkg/timer"
)

// DashboardStats is the compliance overview for an organization.
type DashboardStats struct {
	Workers      int64 `json:"workers"`
	Projects     int64 `json:"projects"`
	Documents    int   `json:"documents"`
	Valid        int   `json:"valid"`
	ExpiringSoon int   `json:"expiringSoon"`
	Expired      int   `json:"expired"`
	Critical     int   `json:"critical"`
}

// StatsService computes dashboard metrics.
type StatsService struct {
	docs     repository.IDocumentRepository
	workers  repository.IWorkerRepository
	projects repository.IProjectRepository
	docsvc   *DocumentService
}

func NewStatsService(docs repository.IDocumentRepository, workers repository.IWorkerRepository, projects repository.IProjectRepository, docsvc *DocumentService) *StatsService {
	return &StatsService{docs: docs, workers: workers, projects: projects, docsvc: docsvc}
}

// Dashboard returns the org-wide compliance counters. Statuses are
// re-derived before counting so the numbers never reflect stale caches.
func (s *StatsService) Dashboard(ctx context.Context, session *auth.Session) (*DashboardStats, error) {
	defer timer.Track("Dashboard Stats")()

	if session == nil {
		return nil, ErrNotAuthenticated
	}
	if !session.Can(auth.CapViewMetrics) {
		return nil, ErrPermissionDenied
	}

	stats := &DashboardStats{}

	var err error
	if stats.Workers, err = s.workers.CountByOrg(ctx, session.OrgID); err != nil {
		return nil, backendError("failed to count workers", err)
	}
	if stats.Projects, err = s.projects.CountByOrg(ctx, session.OrgID); err != nil {
		return nil, backendError("failed to count projects", err)
	}

	docs, err := s.docs.FindByOrg(ctx, session.OrgID, repository.DocumentFilter{})
	if err != nil {
		return nil, backendError("failed to fetch documents", err)
	}
	stats.Documents = len(docs)
	now := time.Now()
	for _, doc := range docs {
		s.docsvc.Refresh(ctx, session, doc)
		info := status.Classify(doc.ExpiryDate, now)
		switch info.Status {
		case status.Valid:
			stats.Valid++
		case status.ExpiringSoon:
			stats.ExpiringSoon++
			if info.IsCritical {
				stats.Critical++
			}
		case status.Expired:
			stats.Expired++
		}
	}
	return stats, nil
}
