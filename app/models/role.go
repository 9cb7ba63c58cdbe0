package models

// Role is the role claim issued by the credential provider.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleTenant   Role = "locataire"
	RoleProspect Role = "prospect"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTenant, RoleProspect:
		return true
	}
	return false
}

// Label is the French display name used in the dashboard.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrateur"
	case RoleTenant:
		return "Locataire"
	case RoleProspect:
		return "Prospect"
	default:
		return "Inconnu"
	}
}
