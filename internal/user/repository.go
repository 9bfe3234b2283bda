package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 3 * time.Second

const userColumns = `id, username, first_name, last_name, age, address, gender, phone_number, email, password_hash, role, created_at`

// Repository provides access to the users table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates the repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Age, &u.Address,
		&u.Gender, &u.PhoneNumber, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// Insert persists a new account.
func (r *Repository) Insert(ctx context.Context, u User) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, first_name, last_name, age, address, gender, phone_number, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+userColumns,
		u.ID, u.Username, u.FirstName, u.LastName, u.Age, u.Address,
		u.Gender, u.PhoneNumber, u.Email, u.PasswordHash, u.Role,
	)
	return scanUser(row)
}

// GetByID fetches an account by storage id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByUsername fetches an account by username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// List returns every account ordered by username.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UsernameExists reports whether another account already uses the username.
func (r *Repository) UsernameExists(ctx context.Context, username string, exclude uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND id <> $2)`,
		username, exclude,
	).Scan(&exists)
	return exists, err
}

// EmailExists reports whether another account already uses the email.
func (r *Repository) EmailExists(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`,
		email, exclude,
	).Scan(&exists)
	return exists, err
}

// Update replaces the mutable fields of an account.
func (r *Repository) Update(ctx context.Context, u User) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET username = $2, first_name = $3, last_name = $4, age = $5, address = $6,
		    gender = $7, phone_number = $8, email = $9, password_hash = $10, role = $11
		WHERE id = $1
		RETURNING `+userColumns,
		u.ID, u.Username, u.FirstName, u.LastName, u.Age, u.Address,
		u.Gender, u.PhoneNumber, u.Email, u.PasswordHash, u.Role,
	)
	return scanUser(row)
}

// Delete removes an account by storage id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
