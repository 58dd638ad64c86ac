package rbac

type Role string
type Action string

const (
	RoleStudent Role = "Student"
	RoleAdmin   Role = "Admin"
)

const (
	ActionRead   Action = "read"
	ActionSubmit Action = "submit"
	ActionManage Action = "manage"
)

func Can(role Role, action Action) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleStudent:
		return action == ActionRead || action == ActionSubmit
	default:
		return false
	}
}

func Normalize(role string) Role {
	switch Role(role) {
	case RoleStudent, RoleAdmin:
		return Role(role)
	default:
		return RoleStudent
	}
}
