package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/barangaymabini/portal/internal/auth"
	"github.com/barangaymabini/portal/internal/session"
	"github.com/barangaymabini/portal/internal/util"
)

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context) ([]User, error)
	UsernameExists(ctx context.Context, username string, exclude uuid.UUID) (bool, error)
	EmailExists(ctx context.Context, email string, exclude uuid.UUID) (bool, error)
	Update(ctx context.Context, u User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Sessions is the login-snapshot cache.
type Sessions interface {
	Save(ctx context.Context, snap session.Snapshot) error
	Get(ctx context.Context, username string) (session.Snapshot, error)
	Delete(ctx context.Context, username string) error
}

// Service holds account and login rules.
type Service struct {
	store         Store
	sessions      Sessions
	jwt           *auth.JWTManager
	adminCode     string
	moderatorCode string
}

// NewService creates the account service.
func NewService(store Store, sessions Sessions, jwt *auth.JWTManager, adminCode, moderatorCode string) *Service {
	return &Service{
		store:         store,
		sessions:      sessions,
		jwt:           jwt,
		adminCode:     adminCode,
		moderatorCode: moderatorCode,
	}
}

// RegisterInput carries a signup request.
type RegisterInput struct {
	Username     string `json:"username"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Age          int    `json:"age"`
	Address      string `json:"address"`
	Gender       string `json:"gender"`
	PhoneNumber  string `json:"phoneNumber"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	RegistryCode string `json:"registryCode"`
}

// Register creates an account after checking the registry-code gate.
func (s *Service) Register(ctx context.Context, input RegisterInput) error {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.Role = strings.ToLower(strings.TrimSpace(input.Role))
	if input.Role == "" {
		input.Role = RoleViewer
	}
	if !IsValidRole(input.Role) {
		return ErrInvalidRole
	}

	switch input.Role {
	case RoleAdmin:
		if input.RegistryCode != s.adminCode {
			return ErrInvalidAdminCode
		}
	case RoleModerator:
		if input.RegistryCode != s.moderatorCode {
			return ErrInvalidModeratorCode
		}
	default:
		if input.RegistryCode != "" {
			return ErrCodeNotAllowed
		}
	}

	if err := util.RequireString(input.Username, "username"); err != nil {
		return invalidInput(err)
	}
	if err := util.ValidateEmail(input.Email); err != nil {
		return invalidInput(err)
	}
	if err := util.ValidatePassword(input.Password); err != nil {
		return invalidInput(err)
	}

	if taken, err := s.store.UsernameExists(ctx, input.Username, uuid.Nil); err != nil {
		return err
	} else if taken {
		return ErrDuplicate
	}
	if taken, err := s.store.EmailExists(ctx, input.Email, uuid.Nil); err != nil {
		return err
	} else if taken {
		return ErrDuplicate
	}

	hash, err := auth.Hash(input.Password)
	if err != nil {
		return err
	}

	_, err = s.store.Insert(ctx, User{
		ID:           uuid.New(),
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Age:          input.Age,
		Address:      input.Address,
		Gender:       input.Gender,
		PhoneNumber:  input.PhoneNumber,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
	})
	return err
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	User  session.Snapshot `json:"user"`
	Token string           `json:"token"`
}

// Login verifies credentials, upserts the session snapshot and issues a token.
// Unknown usernames and wrong passwords fail identically.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.store.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.Verify(password, u.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	snap := u.Snapshot()
	if err := s.sessions.Save(ctx, snap); err != nil {
		return nil, err
	}

	token, _, err := s.jwt.GenerateAccessToken(u.ID.String(), u.Username, u.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: snap, Token: token}, nil
}

// Me serves the session snapshot for a username.
func (s *Service) Me(ctx context.Context, username string) (session.Snapshot, error) {
	return s.sessions.Get(ctx, username)
}

// Logout drops the session snapshot for a username.
func (s *Service) Logout(ctx context.Context, username string) error {
	return s.sessions.Delete(ctx, username)
}

// List returns every account, password hashes excluded by serialization.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

// GetByUsername fetches a single account.
func (s *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	return s.store.GetByUsername(ctx, username)
}

// GetByID fetches a single account by storage id.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	return s.store.GetByID(ctx, id)
}

// UpdateInput carries a partial account update; nil fields are untouched.
type UpdateInput struct {
	Username    *string `json:"username"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Age         *int    `json:"age"`
	Address     *string `json:"address"`
	Gender      *string `json:"gender"`
	PhoneNumber *string `json:"phoneNumber"`
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	Role        *string `json:"role"`
}

// Update applies a partial update, re-checking username and email uniqueness
// against other accounts and re-hashing the password when one is supplied.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (User, error) {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if input.Username != nil && *input.Username != existing.Username {
		taken, err := s.store.UsernameExists(ctx, *input.Username, id)
		if err != nil {
			return User{}, err
		}
		if taken {
			return User{}, ErrUsernameTaken
		}
		existing.Username = *input.Username
	}

	if input.Email != nil && *input.Email != existing.Email {
		if err := util.ValidateEmail(*input.Email); err != nil {
			return User{}, invalidInput(err)
		}
		taken, err := s.store.EmailExists(ctx, *input.Email, id)
		if err != nil {
			return User{}, err
		}
		if taken {
			return User{}, ErrEmailTaken
		}
		existing.Email = *input.Email
	}

	if input.FirstName != nil {
		existing.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		existing.LastName = *input.LastName
	}
	if input.Age != nil {
		existing.Age = *input.Age
	}
	if input.Address != nil {
		existing.Address = *input.Address
	}
	if input.Gender != nil {
		existing.Gender = *input.Gender
	}
	if input.PhoneNumber != nil {
		existing.PhoneNumber = *input.PhoneNumber
	}
	if input.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*input.Role))
		if !IsValidRole(role) {
			return User{}, ErrInvalidRole
		}
		existing.Role = role
	}
	if input.Password != nil && *input.Password != "" {
		if err := util.ValidatePassword(*input.Password); err != nil {
			return User{}, invalidInput(err)
		}
		hash, err := auth.Hash(*input.Password)
		if err != nil {
			return User{}, err
		}
		existing.PasswordHash = hash
	}

	return s.store.Update(ctx, existing)
}

func invalidInput(err error) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
}

// Delete removes an account and cascades its session snapshot.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	return s.sessions.Delete(ctx, existing.Username)
}
