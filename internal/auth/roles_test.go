package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allCapabilities = []Capability{
	CapCreateProject, CapEditProject, CapDeleteProject,
	CapUploadDocument, CapDeleteDocument,
	CapCreateWorker, CapEditWorker,
	CapViewAllProjects, CapAssignWorkers,
	CapManageUsers, CapViewMetrics,
	CapManageSubscriptions, CapManageAdmins,
}

func TestEveryRoleAnswersEveryCapability(t *testing.T) {
	roles := []Role{RoleOwner, RoleSupport, RoleSubscriber, RoleViewer, RoleCollaborator}
	for _, role := range roles {
		for _, cap := range allCapabilities {
			// Must not panic and must return a definite answer.
			_ = HasPermission(role, cap)
		}
	}
}

func TestOwnerHasEverything(t *testing.T) {
	for _, cap := range allCapabilities {
		assert.True(t, HasPermission(RoleOwner, cap), string(cap))
	}
}

func TestViewerHasNothing(t *testing.T) {
	for _, cap := range allCapabilities {
		assert.False(t, HasPermission(RoleViewer, cap), string(cap))
	}
}

func TestCollaboratorScope(t *testing.T) {
	assert.True(t, HasPermission(RoleCollaborator, CapUploadDocument))
	assert.True(t, HasPermission(RoleCollaborator, CapCreateWorker))
	assert.True(t, HasPermission(RoleCollaborator, CapEditWorker))

	assert.False(t, HasPermission(RoleCollaborator, CapDeleteDocument))
	assert.False(t, HasPermission(RoleCollaborator, CapCreateProject))
	assert.False(t, HasPermission(RoleCollaborator, CapViewAllProjects))
	assert.False(t, HasPermission(RoleCollaborator, CapManageUsers))
}

func TestSubscriberScope(t *testing.T) {
	assert.True(t, HasPermission(RoleSubscriber, CapViewAllProjects))
	assert.True(t, HasPermission(RoleSubscriber, CapManageUsers))
	assert.True(t, HasPermission(RoleSubscriber, CapDeleteProject))

	assert.False(t, HasPermission(RoleSubscriber, CapManageSubscriptions))
	assert.False(t, HasPermission(RoleSubscriber, CapManageAdmins))
}

func TestUnknownRoleFailsClosed(t *testing.T) {
	for _, cap := range allCapabilities {
		assert.False(t, HasPermission(Role("superadmin"), cap))
		assert.False(t, HasPermission(Role(""), cap))
	}
}

func TestUnknownCapabilityFailsClosed(t *testing.T) {
	assert.False(t, HasPermission(RoleOwner, Capability("launchMissiles")))
}

func TestNormalizeRoleLegacyMapping(t *testing.T) {
	assert.Equal(t, RoleOwner, NormalizeRole("super"))
	assert.Equal(t, RoleCollaborator, NormalizeRole("secondary"))
	assert.Equal(t, RoleViewer, NormalizeRole("viewer"))
	assert.Equal(t, RoleSubscriber, NormalizeRole("subscriber"))

	// Unknown stays unknown and keeps failing permission checks.
	unknown := NormalizeRole("director")
	assert.False(t, KnownRole(unknown))
	assert.False(t, HasPermission(unknown, CapUploadDocument))
}

func TestSessionScoping(t *testing.T) {
	subscriber := &Session{Role: RoleSubscriber}
	assert.False(t, subscriber.ScopedToProjects())

	viewer := &Session{Role: RoleViewer}
	assert.True(t, viewer.ScopedToProjects())

	collaborator := &Session{Role: RoleCollaborator}
	assert.True(t, collaborator.ScopedToProjects())

	var nilSession *Session
	assert.False(t, nilSession.Can(CapUploadDocument))
}
