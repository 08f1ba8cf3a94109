package service

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"obradoc/internal/auth"
	"obradoc/internal/model"
	"obradoc/internal/repository"
	"obradoc/pkg/util"
)

// UserService manages organization members.
type UserService struct {
	users repository.IUserRepository
	orgs  repository.IOrgRepository
}

func NewUserService(users repository.IUserRepository, orgs repository.IOrgRepository) *UserService {
	return &UserService{users: users, orgs: orgs}
}

// MemberInput is the payload for creating a member account directly.
type MemberInput struct {
	Name       string               `json:"name"`
	Email      string               `json:"email"`
	Password   string               `json:"password"`
	Role       string               `json:"role"`
	ProjectIDs []primitive.ObjectID `json:"projectIds"`
}

// List returns every member of the caller's organization.
func (s *UserService) List(ctx context.Context, session *auth.Session) ([]model.UserResponse, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	if !session.Can(auth.CapManageUsers) {
		return nil, ErrPermissionDenied
	}
	users, err := s.users.FindByOrg(ctx, session.OrgID)
	if err != nil {
		return nil, backendError("failed to list users", err)
	}
	out := make([]model.UserResponse, 0, len(users))
	for _, u := range users {
		resp := u.ToResponse()
		resp.Role = string(auth.NormalizeRole(u.Role))
		out = append(out, resp)
	}
	return out, nil
}

// CreateMember adds a viewer or collaborator account to the caller's org.
func (s *UserService) CreateMember(ctx context.Context, session *auth.Session, input MemberInput) (*model.User, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	if !session.Can(auth.CapManageUsers) {
		return nil, ErrPermissionDenied
	}

	role := auth.NormalizeRole(input.Role)
	if role != auth.RoleViewer && role != auth.RoleCollaborator {
		return nil, validationError("role must be viewer or collaborator")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := util.ValidateEmail(email); err != nil {
		return nil, validationError(err.Error())
	}
	if len(input.Password) < 8 {
		return nil, validationError("password must be at least 8 characters")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, backendError("failed to check email", err)
	}
	if existing != nil {
		return nil, validationError("email is already registered")
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, backendError("failed to hash password", err)
	}

	user, err := s.users.Create(ctx, &model.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         string(role),
		OrgID:        session.OrgID,
		ProjectIDs:   input.ProjectIDs,
		CreatedBy:    session.UserID,
	})
	if err != nil {
		return nil, backendError("failed to create user", err)
	}
	if err := s.orgs.AddMember(ctx, session.OrgID, user.ID); err != nil {
		return nil, backendError("failed to register member", err)
	}
	return user, nil
}

// UpdateMember changes a member's role or project assignments.
func (s *UserService) UpdateMember(ctx context.Context, session *auth.Session, id primitive.ObjectID, role string, projectIDs []primitive.ObjectID) (*model.User, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	if !session.Can(auth.CapManageUsers) {
		return nil, ErrPermissionDenied
	}
	user, err := s.memberOf(ctx, session, id)
	if err != nil {
		return nil, err
	}

	fields := bson.M{}
	if role != "" {
		normalized := auth.NormalizeRole(role)
		if !auth.KnownRole(normalized) {
			return nil, validationError("unknown role")
		}
		fields["role"] = string(normalized)
	}
	if projectIDs != nil {
		fields["projectIds"] = projectIDs
	}
	if len(fields) == 0 {
		return user, nil
	}
	if err := s.users.Update(ctx, user.ID, fields); err != nil {
		return nil, backendError("failed to update user", err)
	}
	return s.users.FindByID(ctx, user.ID)
}

// DeleteMember removes a member account and its org membership. The result
// reports whether the credential record went with it, so callers can surface
// partial cleanups instead of silently losing them.
func (s *UserService) DeleteMember(ctx context.Context, session *auth.Session, id primitive.ObjectID) (*model.DeleteUserResult, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	if !session.Can(auth.CapManageUsers) {
		return nil, ErrPermissionDenied
	}
	if id == session.UserID {
		return nil, validationError("cannot delete your own account")
	}
	user, err := s.memberOf(ctx, session, id)
	if err != nil {
		return nil, err
	}

	org, err := s.orgs.FindByID(ctx, session.OrgID)
	if err != nil {
		return nil, backendError("failed to load organization", err)
	}
	if org != nil && org.OwnerID == user.ID {
		return nil, validationError("cannot delete the organization owner")
	}

	if err := s.orgs.RemoveMember(ctx, session.OrgID, user.ID); err != nil {
		return nil, backendError("failed to remove member", err)
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return &model.DeleteUserResult{
			Success:     true,
			AuthDeleted: false,
			Message:     fmt.Sprintf("membership removed but account %s could not be deleted", user.Email),
		}, nil
	}
	return &model.DeleteUserResult{
		Success:     true,
		AuthDeleted: true,
		Message:     fmt.Sprintf("user %s deleted", user.Email),
	}, nil
}

func (s *UserService) memberOf(ctx context.Context, session *auth.Session, id primitive.ObjectID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, backendError("failed to load user", err)
	}
	if user == nil || user.OrgID != session.OrgID {
		return nil, notFoundError("user")
	}
	return user, nil
}
