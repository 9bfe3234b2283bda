package certificate

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/barangaymabini/portal/internal/resident"
)

const dbTimeout = 3 * time.Second

const certificateColumns = `record_id, control_number, resident_id, certificate_type, purpose,
	issued_by, date_issued, or_number, or_amount, resident_data`

// Repository provides access to the certificates table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates the repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanCertificate(row pgx.Row) (Certificate, error) {
	var (
		cert Certificate
		snap []byte
	)
	err := row.Scan(
		&cert.RecordID, &cert.ControlNumber, &cert.ResidentID, &cert.CertificateType,
		&cert.Purpose, &cert.IssuedBy, &cert.DateIssued, &cert.ORNumber, &cert.ORAmount, &snap,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Certificate{}, ErrNotFound
	}
	if err != nil {
		return Certificate{}, err
	}
	if len(snap) > 0 {
		var res resident.Resident
		if err := json.Unmarshal(snap, &res); err != nil {
			return Certificate{}, err
		}
		cert.ResidentData = res
	}
	return cert, nil
}

// Insert persists an issuance record. A control-number collision surfaces as
// ErrControlNumberTaken.
func (r *Repository) Insert(ctx context.Context, cert Certificate) (Certificate, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	snap, err := json.Marshal(cert.ResidentData)
	if err != nil {
		return Certificate{}, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO certificates (record_id, control_number, resident_id, certificate_type,
			purpose, issued_by, date_issued, or_number, or_amount, resident_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+certificateColumns,
		cert.RecordID, cert.ControlNumber, cert.ResidentID, cert.CertificateType,
		cert.Purpose, cert.IssuedBy, cert.DateIssued, cert.ORNumber, cert.ORAmount, snap,
	)

	saved, err := scanCertificate(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Certificate{}, ErrControlNumberTaken
		}
		return Certificate{}, err
	}
	return saved, nil
}

// ListRecent returns the newest issuances by date, capped at limit.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Certificate, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx,
		`SELECT `+certificateColumns+` FROM certificates ORDER BY date_issued DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCertificates(rows)
}

// GetByIDOrControl resolves a certificate by storage id or control number.
func (r *Repository) GetByIDOrControl(ctx context.Context, param string) (Certificate, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx,
		`SELECT `+certificateColumns+` FROM certificates
		 WHERE control_number = $1 OR record_id::text = $1`,
		param,
	)
	return scanCertificate(row)
}

// ListByResident returns every issuance for a resident public id, newest
// first.
func (r *Repository) ListByResident(ctx context.Context, residentID string) ([]Certificate, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx,
		`SELECT `+certificateColumns+` FROM certificates
		 WHERE resident_id = $1 ORDER BY date_issued DESC`,
		residentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCertificates(rows)
}

// Search matches a case-insensitive substring over the control number, the
// snapshot name and house number, and the OR number.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]Certificate, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	pattern := "%" + query + "%"
	rows, err := r.pool.Query(ctx,
		`SELECT `+certificateColumns+` FROM certificates
		 WHERE control_number ILIKE $1
		    OR resident_data->>'firstName' ILIKE $1
		    OR resident_data->>'surname' ILIKE $1
		    OR resident_data->>'houseNumber' ILIKE $1
		    OR or_number ILIKE $1
		 ORDER BY date_issued DESC
		 LIMIT $2`,
		pattern, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCertificates(rows)
}

func collectCertificates(rows pgx.Rows) ([]Certificate, error) {
	var certs []Certificate
	for rows.Next() {
		cert, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}
	return certs, rows.Err()
}
