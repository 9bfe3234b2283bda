package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no session exists for a username.
var ErrNotFound = errors.New("session not found")

const keyPrefix = "session:"

// Snapshot is the denormalized profile stored for a logged-in account.
// It is what GET /api/me serves; it is not a token store.
type Snapshot struct {
	Username    string `json:"username"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Age         int    `json:"age"`
	Address     string `json:"address"`
	Gender      string `json:"gender"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
}

// Store keeps one snapshot per username in Redis.
type Store struct {
	client *redis.Client
}

// NewStore creates the session store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Save upserts the snapshot for its username. Sessions have no TTL; they
// live until logout or account deletion.
func (s *Store) Save(ctx context.Context, snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+snap.Username, payload, 0).Err()
}

// Get returns the snapshot for a username.
func (s *Store) Get(ctx context.Context, username string) (Snapshot, error) {
	raw, err := s.client.Get(ctx, keyPrefix+username).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Delete removes the snapshot for a username. Deleting an absent session is
// not an error.
func (s *Store) Delete(ctx context.Context, username string) error {
	return s.client.Del(ctx, keyPrefix+username).Err()
}
