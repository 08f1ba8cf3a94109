package auth

// Role is one of the five account roles.
type Role string

const (
	RoleOwner        Role = "owner"
	RoleSupport      Role = "support"
	RoleSubscriber   Role = "subscriber"
	RoleViewer       Role = "viewer"
	RoleCollaborator Role = "collaborator"
)

// Capability is a named permission gate.
type Capability string

const (
	CapCreateProject       Capability = "createProject"
	CapEditProject         Capability = "editProject"
	CapDeleteProject       Capability = "deleteProject"
	CapUploadDocument      Capability = "uploadDocument"
	CapDeleteDocument      Capability = "deleteDocument"
	CapCreateWorker        Capability = "createWorker"
	CapEditWorker          Capability = "editWorker"
	CapViewAllProjects     Capability = "viewAllProjects"
	CapAssignWorkers       Capability = "assignWorkers"
	CapManageUsers         Capability = "manageUsers"
	CapViewMetrics         Capability = "viewMetrics"
	CapManageSubscriptions Capability = "manageSubscriptions"
	CapManageAdmins        Capability = "manageAdmins"
)

// rolePermissions is the static role -> capability table. Owner is the
// platform operator, support is platform staff, subscriber is a paying org
// admin, collaborator works inside assigned projects, viewer is read-only.
var rolePermissions = map[Role]map[Capability]bool{
	RoleOwner: {
		CapCreateProject:       true,
		CapEditProject:         true,
		CapDeleteProject:       true,
		CapUploadDocument:      true,
		CapDeleteDocument:      true,
		CapCreateWorker:        true,
		CapEditWorker:          true,
		CapViewAllProjects:     true,
		CapAssignWorkers:       true,
		CapManageUsers:         true,
		CapViewMetrics:         true,
		CapManageSubscriptions: true,
		CapManageAdmins:        true,
	},
	RoleSupport: {
		CapViewAllProjects:     true,
		CapManageUsers:         true,
		CapViewMetrics:         true,
		CapManageSubscriptions: true,
	},
	RoleSubscriber: {
		CapCreateProject:   true,
		CapEditProject:     true,
		CapDeleteProject:   true,
		CapUploadDocument:  true,
		CapDeleteDocument:  true,
		CapCreateWorker:    true,
		CapEditWorker:      true,
		CapViewAllProjects: true,
		CapAssignWorkers:   true,
		CapManageUsers:     true,
		CapViewMetrics:     true,
	},
	RoleCollaborator: {
		CapUploadDocument: true,
		CapCreateWorker:   true,
		CapEditWorker:     true,
	},
	RoleViewer: {},
}

// HasPermission answers "can this role do X?". Unknown roles and unknown
// capabilities are denied (fail-closed).
func HasPermission(role Role, cap Capability) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	return perms[cap]
}

// NormalizeRole maps the legacy two-role scheme onto the current five-role
// set and passes current roles through unchanged. Anything unrecognized is
// returned as-is and will fail every permission check.
func NormalizeRole(stored string) Role {
	switch stored {
	case "super":
		return RoleOwner
	case "secondary":
		return RoleCollaborator
	default:
		return Role(stored)
	}
}

// KnownRole reports whether r is one of the five defined roles.
func KnownRole(r Role) bool {
	_, ok := rolePermissions[r]
	return ok
}
