package service

import (
	"context"
	"log"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"obradoc/internal/auth"
	"obradoc/internal/model"
	"obradoc/internal/repository"
	"obradoc/pkg/storage"
	"obradoc/pkg/util"
)

// WorkerService manages worker records and their project assignments.
type WorkerService struct {
	workers  repository.IWorkerRepository
	projects repository.IProjectRepository
	docs     repository.IDocumentRepository
	store    storage.ObjectStorage
	limits   *LimitService
}

func NewWorkerService(workers repository.IWorkerRepository, projects repository.IProjectRepository, docs repository.IDocumentRepository, store storage.ObjectStorage, limits *LimitService) *WorkerService {
	return &WorkerService{workers: workers, projects: projects, docs: docs, store: store, limits: limits}
}

// WorkerInput is the payload for creating or updating a worker.
type WorkerInput struct {
	Name           string               `json:"name"`
	DocumentNumber string               `json:"documentNumber"`
	ProjectIDs     []primitive.ObjectID `json:"projectIds"`
}

// Create adds a worker to the caller's organization.
func (s *WorkerService) Create(ctx context.Context, session *auth.Session, input WorkerInput) (*model.Worker, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	if !session.Can(auth.CapCreateWorker) {
		return nil, ErrPermissionDenied
	}
	if err := validateWorkerInput(input); err != nil {
		return nil, err
	}

	if s.limits != nil {
		if err := s.limits.CheckWorkerQuota(ctx, session); err != nil {
			return nil, err
		}
	}

	projectIDs, err := s.resolveProjects(ctx, session, input.ProjectIDs)
	if err != nil {
		return nil, err
	}

	worker, err := s.workers.Create(ctx, &model.Worker{
		OrgID:          session.OrgID,
		Name:           strings.TrimSpace(input.Name),
		DocumentNumber: strings.TrimSpace(input.DocumentNumber),
		ProjectIDs:     projectIDs,
		CreatedBy:      session.UserID,
	})
	if err != nil {
		return nil, backendError("failed to create worker", err)
	}
	if s.limits != nil {
		s.limits.InvalidateUsage(ctx, session.OrgID)
	}
	return worker, nil
}

// Get loads one worker within the caller's scope.
func (s *WorkerService) Get(ctx context.Context, session *auth.Session, id primitive.ObjectID) (*model.Worker, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	worker, err := s.workers.FindByID(ctx, id)
	if err != nil {
		return nil, backendError("failed to load worker", err)
	}
	if worker == nil || worker.OrgID != session.OrgID {
		return nil, notFoundError("worker")
	}
	if session.ScopedToProjects() && !workerInProjects(worker, session.ProjectIDs) {
		return nil, ErrPermissionDenied
	}
	return worker, nil
}

// List returns the workers visible to the caller. Project-scoped roles only
// see workers assigned to their projects.
func (s *WorkerService) List(ctx context.Context, session *auth.Session) ([]*model.Worker, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	if session.ScopedToProjects() {
		workers, err := s.workers.FindByProjects(ctx, session.ProjectIDs)
		if err != nil {
			return nil, backendError("failed to list workers", err)
		}
		return workers, nil
	}
	workers, err := s.workers.FindByOrg(ctx, session.OrgID)
	if err != nil {
		return nil, backendError("failed to list workers", err)
	}
	return workers, nil
}

// ListByProject returns the workers assigned to one project.
func (s *WorkerService) ListByProject(ctx context.Context, session *auth.Session, projectID primitive.ObjectID) ([]*model.Worker, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	if session.ScopedToProjects() && !session.InProject(projectID) {
		return nil, ErrPermissionDenied
	}
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, backendError("failed to load project", err)
	}
	if project == nil || project.OrgID != session.OrgID {
		return nil, notFoundError("project")
	}
	workers, err := s.workers.FindByProject(ctx, projectID)
	if err != nil {
		return nil, backendError("failed to list workers", err)
	}
	return workers, nil
}

// Update changes a worker's name, document number or project assignments.
func (s *WorkerService) Update(ctx context.Context, session *auth.Session, id primitive.ObjectID, input WorkerInput) (*model.Worker, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	if !session.Can(auth.CapEditWorker) {
		return nil, ErrPermissionDenied
	}
	worker, err := s.Get(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if err := validateWorkerInput(input); err != nil {
		return nil, err
	}
	projectIDs, err := s.resolveProjects(ctx, session, input.ProjectIDs)
	if err != nil {
		return nil, err
	}

	fields := bson.M{
		"name":           strings.TrimSpace(input.Name),
		"documentNumber": strings.TrimSpace(input.DocumentNumber),
		"projectIds":     projectIDs,
	}
	if err := s.workers.Update(ctx, worker.ID, fields); err != nil {
		return nil, backendError("failed to update worker", err)
	}
	return s.workers.FindByID(ctx, worker.ID)
}

// AssignToProject adds the worker to a project.
func (s *WorkerService) AssignToProject(ctx context.Context, session *auth.Session, workerID, projectID primitive.ObjectID) error {
	if session == nil {
		return ErrNotAuthenticated
	}
	if !session.Can(auth.CapAssignWorkers) {
		return ErrPermissionDenied
	}
	if _, err := s.Get(ctx, session, workerID); err != nil {
		return err
	}
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return backendError("failed to load project", err)
	}
	if project == nil || project.OrgID != session.OrgID {
		return notFoundError("project")
	}
	if err := s.workers.AddToProject(ctx, workerID, projectID); err != nil {
		return backendError("failed to assign worker", err)
	}
	return nil
}

// RemoveFromProject detaches the worker from a project.
func (s *WorkerService) RemoveFromProject(ctx context.Context, session *auth.Session, workerID, projectID primitive.ObjectID) error {
	if session == nil {
		return ErrNotAuthenticated
	}
	if !session.Can(auth.CapAssignWorkers) {
		return ErrPermissionDenied
	}
	if _, err := s.Get(ctx, session, workerID); err != nil {
		return err
	}
	if err := s.workers.RemoveFromProject(ctx, workerID, projectID); err != nil {
		return backendError("failed to remove worker from project", err)
	}
	return nil
}

// Delete removes a worker along with every document and stored file the
// worker owns.
func (s *WorkerService) Delete(ctx context.Context, session *auth.Session, id primitive.ObjectID) error {
	if session == nil {
		return ErrNotAuthenticated
	}
	// Deleting a worker destroys their documents, so the document-delete
	// capability gates it rather than plain worker editing.
	if !session.Can(auth.CapDeleteDocument) {
		return ErrPermissionDenied
	}
	worker, err := s.workers.FindByID(ctx, id)
	if err != nil {
		return backendError("failed to load worker", err)
	}
	if worker == nil || worker.OrgID != session.OrgID {
		return notFoundError("worker")
	}

	docs, err := s.docs.FindByWorker(ctx, id)
	if err != nil {
		return backendError("failed to list worker documents", err)
	}
	for _, doc := range docs {
		if doc.StoragePath == "" {
			continue
		}
		if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
			// Keep going; the record cascade below removes the references.
			log.Printf("[workers] failed to delete object %s: %v", doc.StoragePath, err)
		}
	}
	if err := s.docs.DeleteByWorker(ctx, id); err != nil {
		return backendError("failed to delete worker documents", err)
	}
	if err := s.workers.Delete(ctx, id); err != nil {
		return backendError("failed to delete worker", err)
	}
	if s.limits != nil {
		s.limits.InvalidateUsage(ctx, session.OrgID)
	}
	return nil
}

func validateWorkerInput(input WorkerInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return validationError("worker name is required")
	}
	if err := util.ValidateDocumentNumber(input.DocumentNumber); err != nil {
		return validationError(err.Error())
	}
	return nil
}

// resolveProjects checks every requested project belongs to the caller's org
// and, for project-scoped roles, to the caller's own assignments.
func (s *WorkerService) resolveProjects(ctx context.Context, session *auth.Session, projectIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(projectIDs) == 0 {
		return []primitive.ObjectID{}, nil
	}
	projects, err := s.projects.FindByIDs(ctx, projectIDs)
	if err != nil {
		return nil, backendError("failed to load projects", err)
	}
	found := make(map[primitive.ObjectID]bool, len(projects))
	for _, p := range projects {
		if p.OrgID != session.OrgID {
			return nil, notFoundError("project")
		}
		found[p.ID] = true
	}
	for _, pid := range projectIDs {
		if !found[pid] {
			return nil, notFoundError("project")
		}
		if session.ScopedToProjects() && !session.InProject(pid) {
			return nil, ErrPermissionDenied
		}
	}
	return projectIDs, nil
}
