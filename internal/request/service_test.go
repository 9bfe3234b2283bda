package request

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	requests map[uuid.UUID]Request
}

func newStubStore() *stubStore {
	return &stubStore{requests: make(map[uuid.UUID]Request)}
}

func (s *stubStore) Insert(ctx context.Context, req Request) (Request, error) {
	req.RequestDate = time.Now()
	s.requests[req.ID] = req
	return req, nil
}

func (s *stubStore) List(ctx context.Context, status string) ([]Request, error) {
	var out []Request
	for _, req := range s.requests {
		if status == "" || req.Status == status {
			out = append(out, req)
		}
	}
	return out, nil
}

func (s *stubStore) Get(ctx context.Context, id uuid.UUID) (Request, error) {
	req, ok := s.requests[id]
	if !ok {
		return Request{}, ErrNotFound
	}
	return req, nil
}

func (s *stubStore) Action(ctx context.Context, id uuid.UUID, status, actionBy string, remarks *string) (Request, error) {
	req, ok := s.requests[id]
	if !ok {
		return Request{}, ErrNotFound
	}
	if req.Status != StatusPending {
		return Request{}, ErrAlreadyActioned
	}
	now := time.Now()
	req.Status = status
	req.ActionBy = &actionBy
	req.ActionDate = &now
	if remarks != nil {
		req.Remarks = remarks
	}
	s.requests[id] = req
	return req, nil
}

func (s *stubStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.requests[id]; !ok {
		return ErrNotFound
	}
	delete(s.requests, id)
	return nil
}

func validCreateInput() CreateInput {
	return CreateInput{
		FullName:        "Juan Dela Cruz",
		CertificateType: "clearance",
		Purpose:         "Employment",
	}
}

func TestCreateDefaultsToPending(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newStubStore())

	req, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, req.Status)
	assert.False(t, req.RequestDate.IsZero())
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newStubStore())

	t.Run("missing fields", func(t *testing.T) {
		input := validCreateInput()
		input.FullName = " "
		_, err := svc.Create(ctx, input)
		assert.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("unknown certificate type", func(t *testing.T) {
		input := validCreateInput()
		input.CertificateType = "good-moral"
		_, err := svc.Create(ctx, input)
		assert.ErrorIs(t, err, ErrInvalidType)
	})

	t.Run("unknown status", func(t *testing.T) {
		input := validCreateInput()
		input.Status = "archived"
		_, err := svc.Create(ctx, input)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestListStatusFilter(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	svc := NewService(store)

	created, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)
	_, err = svc.Approve(ctx, created.ID, "Captain")
	require.NoError(t, err)
	_, err = svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	pending, err := svc.List(ctx, "pending")
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// An unrecognized filter matches nothing instead of erroring.
	none, err := svc.List(ctx, "archived")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestActionTerminalStates(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	svc := NewService(store)

	created, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
	require.NotNil(t, approved.ActionBy)
	assert.Equal(t, DefaultActor, *approved.ActionBy)
	assert.NotNil(t, approved.ActionDate)

	// Approved requests are final.
	_, err = svc.Reject(ctx, created.ID, "Captain")
	assert.ErrorIs(t, err, ErrAlreadyActioned)

	record, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, record.Status)
}

func TestUpdateOnlyTerminalStatuses(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newStubStore())

	created, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, UpdateInput{Status: "pending"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	remarks := "Verified at the barangay hall"
	updated, err := svc.Update(ctx, created.ID, UpdateInput{Status: "rejected", Remarks: &remarks, ActionBy: "Captain"})
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, updated.Status)
	require.NotNil(t, updated.Remarks)
	assert.Equal(t, remarks, *updated.Remarks)
}

func TestHandleApproveConflict(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	svc := NewService(store)
	handler := NewHandler(svc)

	created, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)
	_, err = svc.Approve(ctx, created.ID, "Captain")
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Put("/requests/{id}/approve", handler.HandleApprove)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/requests/"+created.ID.String()+"/approve", strings.NewReader(`{}`))
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleCreatePublicSubmission(t *testing.T) {
	svc := NewService(newStubStore())
	handler := NewHandler(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/requests",
		strings.NewReader(`{"fullName":"Juan Dela Cruz","certificateType":"indigency","purpose":"Medical assistance"}`))
	handler.HandleCreate(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Certificate request submitted successfully")
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
}
