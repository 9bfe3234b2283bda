package resident

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, res Resident) (Resident, error)
	List(ctx context.Context) ([]Resident, error)
	GetByPublicID(ctx context.Context, id string) (Resident, error)
	PublicIDExists(ctx context.Context, id string) (bool, error)
	GetByRecordID(ctx context.Context, recordID uuid.UUID) (Resident, error)
	Update(ctx context.Context, res Resident) (Resident, error)
	DeleteByPublicID(ctx context.Context, id string) (string, error)
	DeleteByRecordID(ctx context.Context, recordID uuid.UUID) (string, error)
}

// Service holds registry rules.
type Service struct {
	store Store
}

// NewService creates the registry service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create validates and persists a new entry. A supplied public id must be
// unused; a blank one is generated.
func (s *Service) Create(ctx context.Context, res Resident) (Resident, error) {
	res.ID = strings.TrimSpace(res.ID)

	if err := res.Validate(); err != nil {
		return Resident{}, err
	}

	if res.ID != "" {
		exists, err := s.store.PublicIDExists(ctx, res.ID)
		if err != nil {
			return Resident{}, err
		}
		if exists {
			return Resident{}, ErrDuplicateID
		}
	} else {
		res.ID = uuid.NewString()
	}

	res.RecordID = uuid.New()
	return s.store.Insert(ctx, res)
}

// List returns the full registry.
func (s *Service) List(ctx context.Context) ([]Resident, error) {
	return s.store.List(ctx)
}

// Update replaces the document stored under recordID. A blank public id in
// the payload keeps the existing one.
func (s *Service) Update(ctx context.Context, recordID uuid.UUID, res Resident) (Resident, error) {
	existing, err := s.store.GetByRecordID(ctx, recordID)
	if err != nil {
		return Resident{}, err
	}

	res.RecordID = recordID
	if strings.TrimSpace(res.ID) == "" {
		res.ID = existing.ID
	}

	if err := res.Validate(); err != nil {
		return Resident{}, err
	}

	return s.store.Update(ctx, res)
}

// Delete removes an entry, resolving the parameter as a public id first and
// falling back to the storage id.
func (s *Service) Delete(ctx context.Context, idParam string) (string, error) {
	deleted, err := s.store.DeleteByPublicID(ctx, idParam)
	if err == nil {
		return deleted, nil
	}
	if err != ErrNotFound {
		return "", err
	}

	recordID, parseErr := uuid.Parse(idParam)
	if parseErr != nil {
		return "", ErrNotFound
	}
	return s.store.DeleteByRecordID(ctx, recordID)
}
