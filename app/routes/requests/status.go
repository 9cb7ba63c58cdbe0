package requests

import "rentals-dashboard/app/models"

// StatusConfig is how a request status is shown in lists and detail pages.
type StatusConfig struct {
	Label string
	Icon  string
	Color string
}

var (
	statusConfigs = map[models.RequestStatus]StatusConfig{
		models.RequestPending:  {Label: "En attente", Icon: "clock", Color: "yellow"},
		models.RequestApproved: {Label: "Approuvée", Icon: "check-circle", Color: "green"},
		models.RequestRejected: {Label: "Rejetée", Icon: "x-circle", Color: "red"},
	}
	unknownStatus = StatusConfig{Label: "Inconnu", Icon: "help-circle", Color: "gray"}
)

// ConfigFor maps any status value, including ones the backend may add later, to a presentation.
func ConfigFor(s models.RequestStatus) StatusConfig {
	if cfg, ok := statusConfigs[s]; ok {
		return cfg
	}
	return unknownStatus
}

// IsFinal reports whether no further transition is offered for s.
func IsFinal(s models.RequestStatus) bool {
	return s == models.RequestApproved || s == models.RequestRejected
}
