package certificate

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/barangaymabini/portal/internal/resident"
)

const (
	recentLimit = 100
	searchLimit = 50

	// controlNumberAttempts bounds the in-process retry when the random
	// suffix collides with an existing control number.
	controlNumberAttempts = 3
)

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, cert Certificate) (Certificate, error)
	ListRecent(ctx context.Context, limit int) ([]Certificate, error)
	GetByIDOrControl(ctx context.Context, param string) (Certificate, error)
	ListByResident(ctx context.Context, residentID string) ([]Certificate, error)
	Search(ctx context.Context, query string, limit int) ([]Certificate, error)
}

// Residents is the registry lookup needed to snapshot the issuing resident.
type Residents interface {
	GetByPublicID(ctx context.Context, id string) (resident.Resident, error)
}

// Service holds issuance rules.
type Service struct {
	store     Store
	residents Residents
}

// NewService creates the issuance service.
func NewService(store Store, residents Residents) *Service {
	return &Service{store: store, residents: residents}
}

// GenerateInput carries an issuance request.
type GenerateInput struct {
	ResidentID      string   `json:"residentId"`
	CertificateType string   `json:"certificateType"`
	Purpose         string   `json:"purpose"`
	IssuedBy        string   `json:"issuedBy"`
	ORNumber        *string  `json:"orNumber"`
	ORAmount        *float64 `json:"orAmount"`
}

// Generate issues a certificate: it snapshots the resident, stamps a control
// number and persists the record, retrying generation on a collision.
func (s *Service) Generate(ctx context.Context, input GenerateInput) (Certificate, error) {
	input.ResidentID = strings.TrimSpace(input.ResidentID)
	input.CertificateType = strings.ToLower(strings.TrimSpace(input.CertificateType))
	input.Purpose = strings.TrimSpace(input.Purpose)
	input.IssuedBy = strings.TrimSpace(input.IssuedBy)

	if !IsValidType(input.CertificateType) {
		return Certificate{}, ErrInvalidType
	}
	if input.Purpose == "" || input.IssuedBy == "" {
		return Certificate{}, ErrMissingFields
	}

	res, err := s.residents.GetByPublicID(ctx, input.ResidentID)
	if err != nil {
		if errors.Is(err, resident.ErrNotFound) {
			return Certificate{}, ErrResidentNotFound
		}
		return Certificate{}, err
	}

	cert := Certificate{
		ResidentID:      res.ID,
		CertificateType: input.CertificateType,
		Purpose:         input.Purpose,
		IssuedBy:        input.IssuedBy,
		DateIssued:      time.Now().UTC(),
		ORNumber:        input.ORNumber,
		ORAmount:        input.ORAmount,
		ResidentData:    res,
	}

	var lastErr error
	for attempt := 0; attempt < controlNumberAttempts; attempt++ {
		cert.RecordID = uuid.New()
		cert.ControlNumber = GenerateControlNumber(input.CertificateType)

		saved, err := s.store.Insert(ctx, cert)
		if err == nil {
			return saved, nil
		}
		if !errors.Is(err, ErrControlNumberTaken) {
			return Certificate{}, err
		}
		lastErr = err
	}
	return Certificate{}, lastErr
}

// ListRecent returns the newest 100 issuances.
func (s *Service) ListRecent(ctx context.Context) ([]Certificate, error) {
	return s.store.ListRecent(ctx, recentLimit)
}

// Get resolves a certificate by storage id or control number.
func (s *Service) Get(ctx context.Context, param string) (Certificate, error) {
	return s.store.GetByIDOrControl(ctx, param)
}

// ListByResident returns every issuance for a resident public id.
func (s *Service) ListByResident(ctx context.Context, residentID string) ([]Certificate, error) {
	return s.store.ListByResident(ctx, residentID)
}

// Search matches certificates by control number, snapshot fields or OR
// number, capped at 50 results.
func (s *Service) Search(ctx context.Context, query string) ([]Certificate, error) {
	return s.store.Search(ctx, query, searchLimit)
}
