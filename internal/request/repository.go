package request

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 3 * time.Second

const requestColumns = `id, full_name, contact_number, certificate_type, purpose, status,
	request_date, action_date, action_by, remarks`

// Repository provides access to the certificate_requests table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates the repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	err := row.Scan(
		&req.ID, &req.FullName, &req.ContactNumber, &req.CertificateType,
		&req.Purpose, &req.Status, &req.RequestDate, &req.ActionDate,
		&req.ActionBy, &req.Remarks,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	return req, err
}

// Insert persists a new request.
func (r *Repository) Insert(ctx context.Context, req Request) (Request, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO certificate_requests (id, full_name, contact_number, certificate_type, purpose, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+requestColumns,
		req.ID, req.FullName, req.ContactNumber, req.CertificateType, req.Purpose, req.Status,
	)
	return scanRequest(row)
}

// List returns requests newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status string) ([]Request, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	query := `SELECT ` + requestColumns + ` FROM certificate_requests`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY request_date DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// Get fetches one request by storage id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Request, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `SELECT `+requestColumns+` FROM certificate_requests WHERE id = $1`, id)
	return scanRequest(row)
}

// Action transitions a pending request to a terminal status. The guard is in
// the statement itself, so two concurrent actions cannot both win.
func (r *Repository) Action(ctx context.Context, id uuid.UUID, status, actionBy string, remarks *string) (Request, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		UPDATE certificate_requests
		SET status = $2, action_by = $3, remarks = COALESCE($4, remarks), action_date = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+requestColumns,
		id, status, actionBy, remarks,
	)

	req, err := scanRequest(row)
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Request{}, err
	}

	// No pending row matched: distinguish missing from already actioned.
	if _, getErr := r.Get(ctx, id); getErr != nil {
		return Request{}, getErr
	}
	return Request{}, ErrAlreadyActioned
}

// Delete removes a request unconditionally by storage id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM certificate_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
