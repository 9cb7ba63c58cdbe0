package session

import "rentals-dashboard/app/models"

// Capability is an action gated by role.
type Capability string

const (
	ManageUsers     Capability = "manage_users"
	ManageEstates   Capability = "manage_estates"
	ApproveRequests Capability = "approve_requests"
	RejectRequests  Capability = "reject_requests"
	RequestRental   Capability = "request_rental"
	DeleteRecords   Capability = "delete_records"
	ManagePayments  Capability = "manage_payments"
	ViewPayments    Capability = "view_payments"
	SendMessages    Capability = "send_messages"
)

var capabilities = map[models.Role]map[Capability]bool{
	models.RoleAdmin: {
		ManageUsers:     true,
		ManageEstates:   true,
		ApproveRequests: true,
		RejectRequests:  true,
		DeleteRecords:   true,
		ManagePayments:  true,
		ViewPayments:    true,
		SendMessages:    true,
	},
	models.RoleTenant: {
		ViewPayments: true,
		SendMessages: true,
	},
	models.RoleProspect: {
		RequestRental: true,
		SendMessages:  true,
	},
}

// Can is the single source of truth for role-based UI and route gating.
func Can(role models.Role, c Capability) bool {
	return capabilities[role][c]
}

func CanApprove(role models.Role) bool        { return Can(role, ApproveRequests) }
func CanReject(role models.Role) bool         { return Can(role, RejectRequests) }
func CanDelete(role models.Role) bool         { return Can(role, DeleteRecords) }
func CanManageUsers(role models.Role) bool    { return Can(role, ManageUsers) }
func CanManageEstates(role models.Role) bool  { return Can(role, ManageEstates) }
func CanManagePayments(role models.Role) bool { return Can(role, ManagePayments) }
func CanViewPayments(role models.Role) bool   { return Can(role, ViewPayments) }
func CanRequestRental(role models.Role) bool  { return Can(role, RequestRental) }

// Can reports whether the session's role grants c. A nil session grants nothing.
func (s *Session) Can(c string) bool {
	if s == nil {
		return false
	}
	return Can(s.Role, Capability(c))
}
