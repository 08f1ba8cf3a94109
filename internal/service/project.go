package service

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"obradoc/internal/auth"
	"obradoc/internal/model"
	"obradoc/internal/repository"
)

// ProjectService manages construction site projects.
type ProjectService struct {
	projects repository.IProjectRepository
	workers  repository.IWorkerRepository
	users    repository.IUserRepository
	limits   *LimitService
}

func NewProjectService(projects repository.IProjectRepository, workers repository.IWorkerRepository, users repository.IUserRepository, limits *LimitService) *ProjectService {
	return &ProjectService{projects: projects, workers: workers, users: users, limits: limits}
}

// ProjectInput is the payload for creating or updating a project.
type ProjectInput struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"isActive"`
}

// Create adds a project to the caller's organization.
func (s *ProjectService) Create(ctx context.Context, session *auth.Session, input ProjectInput) (*model.Project, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	if !session.Can(auth.CapCreateProject) {
		return nil, ErrPermissionDenied
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("project name is required")
	}

	if s.limits != nil {
		if err := s.limits.CheckProjectQuota(ctx, session); err != nil {
			return nil, err
		}
	}

	project, err := s.projects.Create(ctx, &model.Project{
		OrgID:    session.OrgID,
		Name:     name,
		IsActive: true,
	})
	if err != nil {
		return nil, backendError("failed to create project", err)
	}
	if s.limits != nil {
		s.limits.InvalidateUsage(ctx, session.OrgID)
	}
	return project, nil
}

// Get loads one project within the caller's scope.
func (s *ProjectService) Get(ctx context.Context, session *auth.Session, id primitive.ObjectID) (*model.Project, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	if session.ScopedToProjects() && !session.InProject(id) {
		return nil, ErrPermissionDenied
	}
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, backendError("failed to load project", err)
	}
	if project == nil || project.OrgID != session.OrgID {
		return nil, notFoundError("project")
	}
	return project, nil
}

// List returns the projects visible to the caller, most recently updated
// first. Project-scoped roles only see their assignments.
func (s *ProjectService) List(ctx context.Context, session *auth.Session) ([]*model.Project, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	if session.ScopedToProjects() {
		projects, err := s.projects.FindByIDs(ctx, session.ProjectIDs)
		if err != nil {
			return nil, backendError("failed to list projects", err)
		}
		return projects, nil
	}
	projects, err := s.projects.FindByOrg(ctx, session.OrgID)
	if err != nil {
		return nil, backendError("failed to list projects", err)
	}
	return projects, nil
}

// Update changes a project's name or active flag.
func (s *ProjectService) Update(ctx context.Context, session *auth.Session, id primitive.ObjectID, input ProjectInput) (*model.Project, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	if !session.Can(auth.CapEditProject) {
		return nil, ErrPermissionDenied
	}
	project, err := s.Get(ctx, session, id)
	if err != nil {
		return nil, err
	}

	fields := bson.M{}
	if name := strings.TrimSpace(input.Name); name != "" {
		fields["name"] = name
	}
	if input.IsActive != nil {
		fields["isActive"] = *input.IsActive
	}
	if len(fields) == 0 {
		return project, nil
	}
	if err := s.projects.Update(ctx, project.ID, fields); err != nil {
		return nil, backendError("failed to update project", err)
	}
	return s.projects.FindByID(ctx, project.ID)
}

// Delete removes a project and detaches it from every worker and user that
// referenced it. Documents stay with their workers.
func (s *ProjectService) Delete(ctx context.Context, session *auth.Session, id primitive.ObjectID) error {
	if session == nil {
		return ErrNotAuthenticated
	}
	if !session.Can(auth.CapDeleteProject) {
		return ErrPermissionDenied
	}
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return backendError("failed to load project", err)
	}
	if project == nil || project.OrgID != session.OrgID {
		return notFoundError("project")
	}

	if err := s.workers.RemoveProjectFromAll(ctx, id); err != nil {
		return backendError("failed to detach workers", err)
	}
	if err := s.users.RemoveProjectFromAll(ctx, id); err != nil {
		return backendError("failed to detach users", err)
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return backendError("failed to delete project", err)
	}
	if s.limits != nil {
		s.limits.InvalidateUsage(ctx, session.OrgID)
	}
	return nil
}
