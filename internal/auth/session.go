package auth

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session identifies the authenticated caller for a single request. It is
// resolved once by middleware and passed explicitly; there is no global
// current-user state.
type Session struct {
	UserID     primitive.ObjectID
	Email      string
	Name       string
	Role       Role
	OrgID      primitive.ObjectID
	ProjectIDs []primitive.ObjectID
}

// Can reports whether the session's role grants a capability.
func (s *Session) Can(cap Capability) bool {
	if s == nil {
		return false
	}
	return HasPermission(s.Role, cap)
}

// ScopedToProjects reports whether the caller only sees assigned projects.
func (s *Session) ScopedToProjects() bool {
	return s != nil && !s.Can(CapViewAllProjects)
}

// InProject reports whether a project is among the session's assignments.
func (s *Session) InProject(projectID primitive.ObjectID) bool {
	if s == nil {
		return false
	}
	for _, id := range s.ProjectIDs {
		if id == projectID {
			return true
		}
	}
	return false
}

type sessionKey struct{}

// WithSession stores the session on a context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom extracts the session from a context, if present.
func SessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
