package certificate

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/barangaymabini/portal/internal/resident"
)

var (
	ErrNotFound           = errors.New("Certificate not found")
	ErrResidentNotFound   = errors.New("Resident not found")
	ErrInvalidType        = errors.New("invalid certificate type")
	ErrMissingFields      = errors.New("purpose and issuedBy are required")
	ErrControlNumberTaken = errors.New("control number already issued")
)

const (
	TypeClearance = "clearance"
	TypeResidency = "residency"
	TypeIndigency = "indigency"
)

var validTypes = map[string]struct{}{
	TypeClearance: {},
	TypeResidency: {},
	TypeIndigency: {},
}

// IsValidType reports whether t is an issuable certificate type.
func IsValidType(t string) bool {
	_, ok := validTypes[t]
	return ok
}

// Certificate is an immutable issuance record. ResidentData is the resident
// document frozen at issuance time, so later registry edits never rewrite
// history.
type Certificate struct {
	RecordID        uuid.UUID         `json:"recordId"`
	ControlNumber   string            `json:"controlNumber"`
	ResidentID      string            `json:"residentId"`
	CertificateType string            `json:"certificateType"`
	Purpose         string            `json:"purpose"`
	IssuedBy        string            `json:"issuedBy"`
	DateIssued      time.Time         `json:"dateIssued"`
	ORNumber        *string           `json:"orNumber,omitempty"`
	ORAmount        *float64          `json:"orAmount,omitempty"`
	ResidentData    resident.Resident `json:"residentData"`
}
