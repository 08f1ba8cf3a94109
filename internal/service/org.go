package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"obradoc/internal/auth"
	"obradoc/internal/model"
	"obradoc/internal/repository"
)

// OrgService reads and administers organizations. Cross-org listing is for
// platform staff only.
type OrgService struct {
	orgs  repository.IOrgRepository
	plans repository.IPlanRepository
}

func NewOrgService(orgs repository.IOrgRepository, plans repository.IPlanRepository) *OrgService {
	return &OrgService{orgs: orgs, plans: plans}
}

// Current returns the caller's organization.
func (s *OrgService) Current(ctx context.Context, session *auth.Session) (*model.Organization, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	if session.OrgID.IsZero() {
		return nil, notFoundError("organization")
	}
	org, err := s.orgs.FindByID(ctx, session.OrgID)
	if err != nil {
		return nil, backendError("failed to load organization", err)
	}
	if org == nil {
		return nil, notFoundError("organization")
	}
	return org, nil
}

// ListAll returns every organization; platform staff only.
func (s *OrgService) ListAll(ctx context.Context, session *auth.Session, status string) ([]*model.Organization, error) {
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	if !session.Can(auth.CapManageSubscriptions) {
		return nil, ErrPermissionDenied
	}
	var (
		orgs []*model.Organization
		err  error
	)
	if status != "" {
		orgs, err = s.orgs.FindByStatus(ctx, status)
	} else {
		orgs, err = s.orgs.FindAll(ctx)
	}
	if err != nil {
		return nil, backendError("failed to list organizations", err)
	}
	return orgs, nil
}

// SetStatus suspends or reactivates an organization; platform staff only.
func (s *OrgService) SetStatus(ctx context.Context, session *auth.Session, orgID primitive.ObjectID, status string) error {
	if session == nil {
		return ErrNotAuthenticated
	}
	if !session.Can(auth.CapManageSubscriptions) {
		return ErrPermissionDenied
	}
	switch status {
	case model.OrgStatusActive, model.OrgStatusInactive, model.OrgStatusSuspended:
	default:
		return validationError("unknown organization status")
	}
	org, err := s.orgs.FindByID(ctx, orgID)
	if err != nil {
		return backendError("failed to load organization", err)
	}
	if org == nil {
		return notFoundError("organization")
	}
	if err := s.orgs.UpdateStatus(ctx, orgID, status); err != nil {
		return backendError("failed to update organization", err)
	}
	return nil
}

// Plans lists the subscription tiers.
func (s *OrgService) Plans(ctx context.Context) ([]*model.Plan, error) {
	plans, err := s.plans.FindAll(ctx)
	if err != nil {
		return nil, backendError("failed to list plans", err)
	}
	return plans, nil
}
