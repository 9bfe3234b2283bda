package certificate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barangaymabini/portal/internal/resident"
)

type stubStore struct {
	certs        []Certificate
	failInserts  int
	insertCalled int
}

func (s *stubStore) Insert(ctx context.Context, cert Certificate) (Certificate, error) {
	s.insertCalled++
	if s.failInserts > 0 {
		s.failInserts--
		return Certificate{}, ErrControlNumberTaken
	}
	s.certs = append(s.certs, cert)
	return cert, nil
}

func (s *stubStore) ListRecent(ctx context.Context, limit int) ([]Certificate, error) {
	if len(s.certs) > limit {
		return s.certs[:limit], nil
	}
	return s.certs, nil
}

func (s *stubStore) GetByIDOrControl(ctx context.Context, param string) (Certificate, error) {
	for _, cert := range s.certs {
		if cert.ControlNumber == param || cert.RecordID.String() == param {
			return cert, nil
		}
	}
	return Certificate{}, ErrNotFound
}

func (s *stubStore) ListByResident(ctx context.Context, residentID string) ([]Certificate, error) {
	var out []Certificate
	for _, cert := range s.certs {
		if cert.ResidentID == residentID {
			out = append(out, cert)
		}
	}
	return out, nil
}

func (s *stubStore) Search(ctx context.Context, query string, limit int) ([]Certificate, error) {
	return s.certs, nil
}

type stubResidents struct {
	residents map[string]resident.Resident
}

func (s *stubResidents) GetByPublicID(ctx context.Context, id string) (resident.Resident, error) {
	res, ok := s.residents[id]
	if !ok {
		return resident.Resident{}, resident.ErrNotFound
	}
	return res, nil
}

func newTestService(store *stubStore) *Service {
	residents := &stubResidents{residents: map[string]resident.Resident{
		"RES-0001": {ID: "RES-0001", FirstName: "Juan", Surname: "Dela Cruz", HouseNumber: "123"},
	}}
	return NewService(store, residents)
}

func validInput() GenerateInput {
	return GenerateInput{
		ResidentID:      "RES-0001",
		CertificateType: TypeClearance,
		Purpose:         "Employment",
		IssuedBy:        "Barangay Secretary",
	}
}

func TestGenerateValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&stubStore{})

	t.Run("unknown type", func(t *testing.T) {
		input := validInput()
		input.CertificateType = "good-moral"
		_, err := svc.Generate(ctx, input)
		assert.ErrorIs(t, err, ErrInvalidType)
	})

	t.Run("missing purpose", func(t *testing.T) {
		input := validInput()
		input.Purpose = " "
		_, err := svc.Generate(ctx, input)
		assert.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("unknown resident", func(t *testing.T) {
		input := validInput()
		input.ResidentID = "RES-9999"
		_, err := svc.Generate(ctx, input)
		assert.ErrorIs(t, err, ErrResidentNotFound)
	})
}

func TestGenerateSnapshotsResident(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{}
	svc := newTestService(store)

	cert, err := svc.Generate(ctx, validInput())
	require.NoError(t, err)

	assert.Equal(t, "RES-0001", cert.ResidentID)
	assert.Equal(t, "Juan", cert.ResidentData.FirstName)
	assert.WithinDuration(t, time.Now().UTC(), cert.DateIssued, time.Minute)
}

func TestControlNumberFormat(t *testing.T) {
	now := time.Now()
	stamp := fmt.Sprintf("%02d%02d", now.Year()%100, int(now.Month()))

	cases := map[string]string{
		TypeClearance: "BC",
		TypeResidency: "CR",
		TypeIndigency: "CI",
		"unknown":     "CT",
	}

	for certType, prefix := range cases {
		pattern := regexp.MustCompile("^" + prefix + stamp + `\d{4}$`)
		for i := 0; i < 20; i++ {
			cn := GenerateControlNumber(certType)
			assert.Regexp(t, pattern, cn)
		}
	}
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	ctx := context.Background()

	t.Run("recovers within the attempt budget", func(t *testing.T) {
		store := &stubStore{failInserts: 2}
		svc := newTestService(store)

		cert, err := svc.Generate(ctx, validInput())
		require.NoError(t, err)
		assert.Equal(t, 3, store.insertCalled)
		assert.NotEmpty(t, cert.ControlNumber)
	})

	t.Run("gives up after exhausting attempts", func(t *testing.T) {
		store := &stubStore{failInserts: 10}
		svc := newTestService(store)

		_, err := svc.Generate(ctx, validInput())
		assert.ErrorIs(t, err, ErrControlNumberTaken)
		assert.Equal(t, controlNumberAttempts, store.insertCalled)
	})
}

func TestHandleSearchRequiresQuery(t *testing.T) {
	svc := newTestService(&stubStore{})
	handler := NewHandler(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/certificates/search", nil)
	handler.HandleSearch(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Search query required")
}

func TestHandleGenerateResidentNotFound(t *testing.T) {
	svc := newTestService(&stubStore{})
	handler := NewHandler(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/certificates",
		strings.NewReader(`{"residentId":"RES-9999","certificateType":"clearance","purpose":"Employment","issuedBy":"Secretary"}`))
	handler.HandleGenerate(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Resident not found")
}
