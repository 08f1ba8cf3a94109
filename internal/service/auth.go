package service

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"obradoc/internal/auth"
	"obradoc/internal/config"
	"obradoc/internal/model"
	"obradoc/internal/repository"
	"obradoc/pkg/util"
)

// AuthService handles registration, login and the one-time owner setup.
type AuthService struct {
	users  repository.IUserRepository
	orgs   repository.IOrgRepository
	admins repository.IAdminRepository
	cfg    *config.Config
}

func NewAuthService(users repository.IUserRepository, orgs repository.IOrgRepository, admins repository.IAdminRepository, cfg *config.Config) *AuthService {
	return &AuthService{users: users, orgs: orgs, admins: admins, cfg: cfg}
}

// LoginResult carries the signed token and the authenticated user.
type LoginResult struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, validationError("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, backendError("failed to load user", err)
	}
	// Same error for unknown email and wrong password.
	if user == nil || !util.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, validationError("invalid credentials")
	}

	return s.issueToken(user)
}

// Register creates a subscriber account with its own organization.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := util.ValidateEmail(email); err != nil {
		return nil, validationError(err.Error())
	}
	if len(req.Password) < 8 {
		return nil, validationError("password must be at least 8 characters")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, backendError("failed to check email", err)
	}
	if existing != nil {
		return nil, validationError("email is already registered")
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, backendError("failed to hash password", err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = email
	}
	user, err := s.users.Create(ctx, &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         string(auth.RoleSubscriber),
	})
	if err != nil {
		return nil, backendError("failed to create user", err)
	}

	orgName := strings.TrimSpace(req.OrgName)
	if orgName == "" {
		orgName = name
	}
	org, err := s.orgs.Create(ctx, &model.Organization{
		Name:    orgName,
		OwnerID: user.ID,
		Members: []primitive.ObjectID{user.ID},
		Status:  model.OrgStatusActive,
	})
	if err != nil {
		return nil, backendError("failed to create organization", err)
	}

	if err := s.users.Update(ctx, user.ID, bson.M{"orgId": org.ID}); err != nil {
		return nil, backendError("failed to link user to organization", err)
	}
	user.OrgID = org.ID

	return s.issueToken(user)
}

// SetupOwner promotes a user to platform owner. It only works once; after
// the config record is marked, further calls are rejected.
func (s *AuthService) SetupOwner(ctx context.Context, userID primitive.ObjectID) (*model.SaasAdmin, error) {
	cfg, err := s.admins.GetConfig(ctx)
	if err != nil {
		return nil, backendError("failed to load setup state", err)
	}
	if cfg != nil && cfg.OwnerConfigured {
		return nil, validationError("owner is already configured")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, backendError("failed to load user", err)
	}
	if user == nil {
		return nil, notFoundError("user")
	}

	admin, err := s.admins.CreateAdmin(ctx, &model.SaasAdmin{
		Email: user.Email,
		Name:  user.Name,
		Role:  string(auth.RoleOwner),
	})
	if err != nil {
		return nil, backendError("failed to create admin", err)
	}

	if err := s.users.Update(ctx, user.ID, bson.M{"role": string(auth.RoleOwner)}); err != nil {
		return nil, backendError("failed to update user role", err)
	}
	if err := s.admins.MarkOwnerConfigured(ctx); err != nil {
		return nil, backendError("failed to mark setup complete", err)
	}
	return admin, nil
}

// CurrentUser reloads the session's user record, so role or project changes
// made after token issue are visible.
func (s *AuthService) CurrentUser(ctx context.Context, session *auth.Session) (*model.User, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, backendError("failed to load user", err)
	}
	if user == nil {
		return nil, notFoundError("user")
	}
	user.Role = string(auth.NormalizeRole(user.Role))
	return user, nil
}

func (s *AuthService) issueToken(user *model.User) (*LoginResult, error) {
	ttl := time.Duration(s.cfg.Auth.TokenTTLSeconds) * time.Second
	claims := auth.BuildClaims(user, ttl)
	token, err := auth.SignToken(claims, []byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		return nil, backendError("failed to sign token", err)
	}
	resp := user.ToResponse()
	resp.Role = string(auth.NormalizeRole(user.Role))
	return &LoginResult{Token: token, User: resp}, nil
}
