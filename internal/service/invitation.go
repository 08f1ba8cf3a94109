package service

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"obradoc/internal/auth"
	"obradoc/internal/model"
	"obradoc/internal/repository"
	"obradoc/pkg/util"
)

// InvitationTTL is how long an invitation stays redeemable.
const InvitationTTL = 7 * 24 * time.Hour

// InvitationService issues and redeems member invitations.
type InvitationService struct {
	invitations repository.IInvitationRepository
	users       repository.IUserRepository
	orgs        repository.IOrgRepository
}

func NewInvitationService(invitations repository.IInvitationRepository, users repository.IUserRepository, orgs repository.IOrgRepository) *InvitationService {
	return &InvitationService{invitations: invitations, users: users, orgs: orgs}
}

// InviteInput is the payload for issuing an invitation.
type InviteInput struct {
	Email     string             `json:"email"`
	Role      string             `json:"role"`
	ProjectID primitive.ObjectID `json:"projectId,omitempty"`
}

// InviteResult carries the invitation and its one-time token. The token is
// only ever returned here; the stored record never serializes it.
type InviteResult struct {
	Invitation *model.Invitation `json:"invitation"`
	Token      string            `json:"token"`
}

// Create issues a pending invitation for a viewer or collaborator.
func (s *InvitationService) Create(ctx context.Context, session *auth.Session, input InviteInput) (*InviteResult, error) {
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

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, backendError("failed to check email", err)
	}
	if existing != nil {
		return nil, validationError("email is already registered")
	}

	token, err := util.GenerateInviteToken()
	if err != nil {
		return nil, backendError("failed to generate token", err)
	}

	inv := &model.Invitation{
		Email:     email,
		Role:      string(role),
		Token:     token,
		OrgID:     session.OrgID,
		ProjectID: input.ProjectID,
		Status:    model.InvitationPending,
		CreatedAt: time.Now(),
		CreatedBy: session.UserID,
		ExpiresAt: time.Now().Add(InvitationTTL),
	}
	if err := s.invitations.Create(ctx, inv); err != nil {
		return nil, backendError("failed to create invitation", err)
	}
	return &InviteResult{Invitation: inv, Token: token}, nil
}

// List returns the caller's organization invitations.
func (s *InvitationService) List(ctx context.Context, session *auth.Session) ([]*model.Invitation, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	if !session.Can(auth.CapManageUsers) {
		return nil, ErrPermissionDenied
	}
	invitations, err := s.invitations.FindByOrg(ctx, session.OrgID)
	if err != nil {
		return nil, backendError("failed to list invitations", err)
	}
	return invitations, nil
}

// Accept redeems an invitation token and creates the member account.
func (s *InvitationService) Accept(ctx context.Context, token, name, password string) (*model.User, error) {
	inv, err := s.invitations.FindByToken(ctx, token)
	if err != nil {
		return nil, backendError("failed to load invitation", err)
	}
	if inv == nil || inv.Status != model.InvitationPending {
		return nil, notFoundError("invitation")
	}
	if time.Now().After(inv.ExpiresAt) {
		// Best effort; an expired pending record is treated the same either way.
		_ = s.invitations.UpdateStatus(ctx, inv.ID, model.InvitationExpired)
		return nil, validationError("invitation has expired")
	}
	if len(password) < 8 {
		return nil, validationError("password must be at least 8 characters")
	}

	existing, err := s.users.FindByEmail(ctx, inv.Email)
	if err != nil {
		return nil, backendError("failed to check email", err)
	}
	if existing != nil {
		return nil, validationError("email is already registered")
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, backendError("failed to hash password", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = inv.Email
	}
	user := &model.User{
		Name:         name,
		Email:        inv.Email,
		PasswordHash: hash,
		Role:         inv.Role,
		OrgID:        inv.OrgID,
		CreatedBy:    inv.CreatedBy,
	}
	if !inv.ProjectID.IsZero() {
		user.ProjectIDs = []primitive.ObjectID{inv.ProjectID}
	}
	user, err = s.users.Create(ctx, user)
	if err != nil {
		return nil, backendError("failed to create user", err)
	}
	if err := s.orgs.AddMember(ctx, inv.OrgID, user.ID); err != nil {
		return nil, backendError("failed to register member", err)
	}
	if err := s.invitations.UpdateStatus(ctx, inv.ID, model.InvitationAccepted); err != nil {
		return nil, backendError("failed to mark invitation accepted", err)
	}
	return user, nil
}
