package resident

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 3 * time.Second

const residentColumns = `record_id, id, first_name, middle_initial, surname, date_of_birth, age,
	civil_status, gender, religion, contact_number, house_number, street, purok,
	household_id, household_head, number_of_household_members, relationship_to_household_head,
	occupation, employer_workplace, educational_attainment, type_of_residence,
	barangay_id_number, voter_status, four_ps_beneficiary, pwd_status`

// Repository provides access to the residents table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates the repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanResident(row pgx.Row) (Resident, error) {
	var res Resident
	err := row.Scan(
		&res.RecordID, &res.ID, &res.FirstName, &res.MiddleInitial, &res.Surname,
		&res.DateOfBirth, &res.Age, &res.CivilStatus, &res.Gender, &res.Religion,
		&res.ContactNumber, &res.HouseNumber, &res.Street, &res.Purok,
		&res.HouseholdID, &res.HouseholdHead, &res.NumberOfHouseholdMembers,
		&res.RelationshipToHouseholdHead, &res.Occupation, &res.EmployerWorkplace,
		&res.EducationalAttainment, &res.TypeOfResidence, &res.BarangayIDNumber,
		&res.VoterStatus, &res.FourPsBeneficiary, &res.PWDStatus,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Resident{}, ErrNotFound
	}
	return res, err
}

// Insert persists a registry entry.
func (r *Repository) Insert(ctx context.Context, res Resident) (Resident, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO residents (record_id, id, first_name, middle_initial, surname, date_of_birth, age,
			civil_status, gender, religion, contact_number, house_number, street, purok,
			household_id, household_head, number_of_household_members, relationship_to_household_head,
			occupation, employer_workplace, educational_attainment, type_of_residence,
			barangay_id_number, voter_status, four_ps_beneficiary, pwd_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, $25, $26)
		RETURNING `+residentColumns,
		res.RecordID, res.ID, res.FirstName, res.MiddleInitial, res.Surname,
		res.DateOfBirth, res.Age, res.CivilStatus, res.Gender, res.Religion,
		res.ContactNumber, res.HouseNumber, res.Street, res.Purok,
		res.HouseholdID, res.HouseholdHead, res.NumberOfHouseholdMembers,
		res.RelationshipToHouseholdHead, res.Occupation, res.EmployerWorkplace,
		res.EducationalAttainment, res.TypeOfResidence, res.BarangayIDNumber,
		res.VoterStatus, res.FourPsBeneficiary, res.PWDStatus,
	)
	return scanResident(row)
}

// List returns the full registry ordered by surname.
func (r *Repository) List(ctx context.Context) ([]Resident, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT `+residentColumns+` FROM residents ORDER BY surname, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var residents []Resident
	for rows.Next() {
		res, err := scanResident(rows)
		if err != nil {
			return nil, err
		}
		residents = append(residents, res)
	}
	return residents, rows.Err()
}

// GetByPublicID fetches an entry by the public id.
func (r *Repository) GetByPublicID(ctx context.Context, id string) (Resident, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `SELECT `+residentColumns+` FROM residents WHERE id = $1`, id)
	return scanResident(row)
}

// PublicIDExists reports whether the public id is already registered.
func (r *Repository) PublicIDExists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM residents WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// Update replaces the full document by storage id.
func (r *Repository) Update(ctx context.Context, res Resident) (Resident, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		UPDATE residents
		SET id = $2, first_name = $3, middle_initial = $4, surname = $5, date_of_birth = $6,
			age = $7, civil_status = $8, gender = $9, religion = $10, contact_number = $11,
			house_number = $12, street = $13, purok = $14, household_id = $15, household_head = $16,
			number_of_household_members = $17, relationship_to_household_head = $18, occupation = $19,
			employer_workplace = $20, educational_attainment = $21, type_of_residence = $22,
			barangay_id_number = $23, voter_status = $24, four_ps_beneficiary = $25, pwd_status = $26
		WHERE record_id = $1
		RETURNING `+residentColumns,
		res.RecordID, res.ID, res.FirstName, res.MiddleInitial, res.Surname,
		res.DateOfBirth, res.Age, res.CivilStatus, res.Gender, res.Religion,
		res.ContactNumber, res.HouseNumber, res.Street, res.Purok,
		res.HouseholdID, res.HouseholdHead, res.NumberOfHouseholdMembers,
		res.RelationshipToHouseholdHead, res.Occupation, res.EmployerWorkplace,
		res.EducationalAttainment, res.TypeOfResidence, res.BarangayIDNumber,
		res.VoterStatus, res.FourPsBeneficiary, res.PWDStatus,
	)
	return scanResident(row)
}

// GetByRecordID fetches an entry by storage id.
func (r *Repository) GetByRecordID(ctx context.Context, recordID uuid.UUID) (Resident, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `SELECT `+residentColumns+` FROM residents WHERE record_id = $1`, recordID)
	return scanResident(row)
}

// DeleteByPublicID removes an entry by public id and reports the deleted id.
func (r *Repository) DeleteByPublicID(ctx context.Context, id string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var deleted string
	err := r.pool.QueryRow(ctx, `DELETE FROM residents WHERE id = $1 RETURNING id`, id).Scan(&deleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return deleted, err
}

// DeleteByRecordID removes an entry by storage id and reports its public id.
func (r *Repository) DeleteByRecordID(ctx context.Context, recordID uuid.UUID) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var deleted string
	err := r.pool.QueryRow(ctx, `DELETE FROM residents WHERE record_id = $1 RETURNING id`, recordID).Scan(&deleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return deleted, err
}
