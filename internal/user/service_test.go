package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barangaymabini/portal/internal/auth"
	"github.com/barangaymabini/portal/internal/session"
)

type stubStore struct {
	users map[uuid.UUID]User
}

func newStubStore() *stubStore {
	return &stubStore{users: make(map[uuid.UUID]User)}
}

func (s *stubStore) Insert(ctx context.Context, u User) (User, error) {
	u.CreatedAt = time.Now()
	s.users[u.ID] = u
	return u, nil
}

func (s *stubStore) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *stubStore) GetByUsername(ctx context.Context, username string) (User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *stubStore) List(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *stubStore) UsernameExists(ctx context.Context, username string, exclude uuid.UUID) (bool, error) {
	for id, u := range s.users {
		if id != exclude && u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubStore) EmailExists(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	for id, u := range s.users {
		if id != exclude && strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubStore) Update(ctx context.Context, u User) (User, error) {
	if _, ok := s.users[u.ID]; !ok {
		return User{}, ErrNotFound
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *stubStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

type stubSessions struct {
	snaps map[string]session.Snapshot
}

func newStubSessions() *stubSessions {
	return &stubSessions{snaps: make(map[string]session.Snapshot)}
}

func (s *stubSessions) Save(ctx context.Context, snap session.Snapshot) error {
	s.snaps[snap.Username] = snap
	return nil
}

func (s *stubSessions) Get(ctx context.Context, username string) (session.Snapshot, error) {
	snap, ok := s.snaps[username]
	if !ok {
		return session.Snapshot{}, session.ErrNotFound
	}
	return snap, nil
}

func (s *stubSessions) Delete(ctx context.Context, username string) error {
	delete(s.snaps, username)
	return nil
}

func newTestService(store Store, sessions Sessions) *Service {
	jwt := auth.NewJWTManager("test-secret-test-secret-test-secret", time.Hour)
	return NewService(store, sessions, jwt, "ADMIN123", "MOD123")
}

func validInput(role, code string) RegisterInput {
	return RegisterInput{
		Username:     "juandelacruz",
		FirstName:    "Juan",
		LastName:     "Dela Cruz",
		Age:          30,
		Address:      "Purok 2, Barangay Mabini",
		Gender:       "Male",
		PhoneNumber:  "09171234567",
		Email:        "juan@example.com",
		Password:     "secret-password",
		Role:         role,
		RegistryCode: code,
	}
}

func TestRegisterRegistryCodeGate(t *testing.T) {
	ctx := context.Background()

	t.Run("admin needs the admin code", func(t *testing.T) {
		svc := newTestService(newStubStore(), newStubSessions())
		err := svc.Register(ctx, validInput("admin", "wrong"))
		assert.ErrorIs(t, err, ErrInvalidAdminCode)

		err = svc.Register(ctx, validInput("admin", "ADMIN123"))
		assert.NoError(t, err)
	})

	t.Run("moderator needs the moderator code", func(t *testing.T) {
		svc := newTestService(newStubStore(), newStubSessions())
		err := svc.Register(ctx, validInput("moderator", "ADMIN123"))
		assert.ErrorIs(t, err, ErrInvalidModeratorCode)

		err = svc.Register(ctx, validInput("moderator", "MOD123"))
		assert.NoError(t, err)
	})

	t.Run("viewer must not send a code", func(t *testing.T) {
		svc := newTestService(newStubStore(), newStubSessions())
		err := svc.Register(ctx, validInput("viewer", "MOD123"))
		assert.ErrorIs(t, err, ErrCodeNotAllowed)
	})

	t.Run("role defaults to viewer", func(t *testing.T) {
		store := newStubStore()
		svc := newTestService(store, newStubSessions())
		require.NoError(t, svc.Register(ctx, validInput("", "")))

		u, err := store.GetByUsername(ctx, "juandelacruz")
		require.NoError(t, err)
		assert.Equal(t, RoleViewer, u.Role)
	})
}

func TestRegisterDuplicates(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	svc := newTestService(store, newStubSessions())

	require.NoError(t, svc.Register(ctx, validInput("viewer", "")))

	dup := validInput("viewer", "")
	dup.Email = "other@example.com"
	assert.ErrorIs(t, svc.Register(ctx, dup), ErrDuplicate)

	dup = validInput("viewer", "")
	dup.Username = "othername"
	assert.ErrorIs(t, svc.Register(ctx, dup), ErrDuplicate)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	sessions := newStubSessions()
	svc := newTestService(store, sessions)

	require.NoError(t, svc.Register(ctx, validInput("viewer", "")))

	t.Run("unknown username and wrong password fail identically", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody", "secret-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = svc.Login(ctx, "juandelacruz", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("success saves the session snapshot and issues a token", func(t *testing.T) {
		result, err := svc.Login(ctx, "juandelacruz", "secret-password")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "juandelacruz", result.User.Username)

		snap, err := sessions.Get(ctx, "juandelacruz")
		require.NoError(t, err)
		assert.Equal(t, "juan@example.com", snap.Email)
	})
}

func TestUpdateUniqueness(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	svc := newTestService(store, newStubSessions())

	require.NoError(t, svc.Register(ctx, validInput("viewer", "")))
	second := validInput("viewer", "")
	second.Username = "mariaclara"
	second.Email = "maria@example.com"
	require.NoError(t, svc.Register(ctx, second))

	target, err := store.GetByUsername(ctx, "mariaclara")
	require.NoError(t, err)

	taken := "juandelacruz"
	_, err = svc.Update(ctx, target.ID, UpdateInput{Username: &taken})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	takenEmail := "juan@example.com"
	_, err = svc.Update(ctx, target.ID, UpdateInput{Email: &takenEmail})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// Re-submitting the current username is not a conflict.
	same := "mariaclara"
	_, err = svc.Update(ctx, target.ID, UpdateInput{Username: &same})
	assert.NoError(t, err)
}

func TestDeleteCascadesSession(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	sessions := newStubSessions()
	svc := newTestService(store, sessions)

	require.NoError(t, svc.Register(ctx, validInput("viewer", "")))
	_, err := svc.Login(ctx, "juandelacruz", "secret-password")
	require.NoError(t, err)

	u, err := store.GetByUsername(ctx, "juandelacruz")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, u.ID))

	_, err = sessions.Get(ctx, "juandelacruz")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestHandleRegisterAndLogin(t *testing.T) {
	store := newStubStore()
	svc := newTestService(store, newStubSessions())
	handler := NewHandler(svc)

	body, err := json.Marshal(validInput("viewer", ""))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	handler.HandleRegister(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var envelope struct {
		Data struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "User registered successfully", envelope.Data.Message)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"juandelacruz","password":"nope"}`))
	handler.HandleLogin(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errEnvelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errEnvelope))
	assert.Equal(t, "Invalid username or password", errEnvelope.Error.Message)
}

func TestHandleMeSessionLookup(t *testing.T) {
	sessions := newStubSessions()
	svc := newTestService(newStubStore(), sessions)
	handler := NewHandler(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/me?username=ghost", nil)
	handler.HandleMe(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, sessions.Save(context.Background(), session.Snapshot{Username: "ghost", Email: "g@example.com"}))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/me?username=ghost", nil)
	handler.HandleMe(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
