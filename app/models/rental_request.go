package models

import "time"

// RequestStatus is the numeric lifecycle state of a rental request.
type RequestStatus int

const (
	RequestPending  RequestStatus = 0
	RequestApproved RequestStatus = 1
	RequestRejected RequestStatus = 2
)

// RentalRequest is filed by a prospect against exactly one estate.
type RentalRequest struct {
	ID         int64         `json:"id"`
	UserID     int64         `json:"user_id"`
	User       *User         `json:"user,omitempty"`
	EstateID   int64         `json:"estate_id"`
	Estate     *Estate       `json:"estate,omitempty"`
	Message    string        `json:"message"`
	Status     RequestStatus `json:"status"`
	AdminNotes *string       `json:"admin_notes,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}
