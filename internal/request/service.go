package request

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, req Request) (Request, error)
	List(ctx context.Context, status string) ([]Request, error)
	Get(ctx context.Context, id uuid.UUID) (Request, error)
	Action(ctx context.Context, id uuid.UUID, status, actionBy string, remarks *string) (Request, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service holds the request workflow rules.
type Service struct {
	store Store
}

// NewService creates the workflow service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateInput carries a citizen's submission.
type CreateInput struct {
	FullName        string  `json:"fullName"`
	ContactNumber   *string `json:"contactNumber"`
	CertificateType string  `json:"certificateType"`
	Purpose         string  `json:"purpose"`
	Status          string  `json:"status"`
}

// Create validates and persists a submission. Status defaults to pending.
func (s *Service) Create(ctx context.Context, input CreateInput) (Request, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.CertificateType = strings.ToLower(strings.TrimSpace(input.CertificateType))
	input.Purpose = strings.TrimSpace(input.Purpose)
	input.Status = strings.ToLower(strings.TrimSpace(input.Status))

	if input.FullName == "" || input.CertificateType == "" || input.Purpose == "" {
		return Request{}, ErrMissingFields
	}
	if !IsValidType(input.CertificateType) {
		return Request{}, ErrInvalidType
	}
	if input.Status == "" {
		input.Status = StatusPending
	}
	if !IsValidStatus(input.Status) {
		return Request{}, ErrInvalidStatus
	}

	return s.store.Insert(ctx, Request{
		ID:              uuid.New(),
		FullName:        input.FullName,
		ContactNumber:   input.ContactNumber,
		CertificateType: input.CertificateType,
		Purpose:         input.Purpose,
		Status:          input.Status,
	})
}

// List returns requests, optionally filtered by status.
func (s *Service) List(ctx context.Context, status string) ([]Request, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && !IsValidStatus(status) {
		// An unknown status matches nothing rather than failing the call.
		return []Request{}, nil
	}
	return s.store.List(ctx, status)
}

// Get fetches one request.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Request, error) {
	return s.store.Get(ctx, id)
}

// UpdateInput carries a staff decision via the generic update route.
type UpdateInput struct {
	Status   string  `json:"status"`
	Remarks  *string `json:"remarks"`
	ActionBy string  `json:"actionBy"`
}

// Update applies a staff decision. Only pending requests can move, and they
// can only move to a terminal status; approved and rejected are final.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (Request, error) {
	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status != StatusApproved && status != StatusRejected {
		return Request{}, ErrInvalidStatus
	}
	return s.action(ctx, id, status, input.ActionBy, input.Remarks)
}

// Approve moves a pending request to approved.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, actionBy string) (Request, error) {
	return s.action(ctx, id, StatusApproved, actionBy, nil)
}

// Reject moves a pending request to rejected.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, actionBy string) (Request, error) {
	return s.action(ctx, id, StatusRejected, actionBy, nil)
}

func (s *Service) action(ctx context.Context, id uuid.UUID, status, actionBy string, remarks *string) (Request, error) {
	actionBy = strings.TrimSpace(actionBy)
	if actionBy == "" {
		actionBy = DefaultActor
	}
	return s.store.Action(ctx, id, status, actionBy, remarks)
}

// Delete removes a request regardless of its status.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}
