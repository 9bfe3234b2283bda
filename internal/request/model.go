package request

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("Request not found")
	ErrMissingFields   = errors.New("Missing required fields")
	ErrInvalidType     = errors.New("invalid certificate type")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrAlreadyActioned = errors.New("request has already been actioned")
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"

	// DefaultActor is stamped when an approval or rejection names nobody.
	DefaultActor = "System"
)

var validStatuses = map[string]struct{}{
	StatusPending:  {},
	StatusApproved: {},
	StatusRejected: {},
}

var validTypes = map[string]struct{}{
	"clearance": {},
	"residency": {},
	"indigency": {},
}

// IsValidStatus reports whether s is a workflow status.
func IsValidStatus(s string) bool {
	_, ok := validStatuses[s]
	return ok
}

// IsValidType reports whether t is a requestable certificate type.
func IsValidType(t string) bool {
	_, ok := validTypes[t]
	return ok
}

// Request is a citizen's certificate request. The requester is free text and
// is not linked to a registry entry; staff match it manually when issuing.
type Request struct {
	ID              uuid.UUID  `json:"id"`
	FullName        string     `json:"fullName"`
	ContactNumber   *string    `json:"contactNumber,omitempty"`
	CertificateType string     `json:"certificateType"`
	Purpose         string     `json:"purpose"`
	Status          string     `json:"status"`
	RequestDate     time.Time  `json:"requestDate"`
	ActionDate      *time.Time `json:"actionDate,omitempty"`
	ActionBy        *string    `json:"actionBy,omitempty"`
	Remarks         *string    `json:"remarks,omitempty"`
}
