package resident

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("Resident not found")
	ErrDuplicateID   = errors.New("Resident with this ID already exists")
	ErrMissingFields = errors.New("All fields are required")
)

// Resident is one registry entry. ID is the public identifier printed on
// certificates and carried through CSV exports; RecordID is the storage key.
type Resident struct {
	RecordID                    uuid.UUID `json:"recordId"`
	ID                          string    `json:"id"`
	FirstName                   string    `json:"firstName"`
	MiddleInitial               string    `json:"middleInitial"`
	Surname                     string    `json:"surname"`
	DateOfBirth                 string    `json:"dateOfBirth"`
	Age                         int       `json:"age"`
	CivilStatus                 string    `json:"civilStatus"`
	Gender                      string    `json:"gender"`
	Religion                    string    `json:"religion"`
	ContactNumber               string    `json:"contactNumber"`
	HouseNumber                 string    `json:"houseNumber"`
	Street                      string    `json:"street"`
	Purok                       string    `json:"purok"`
	HouseholdID                 string    `json:"householdId"`
	HouseholdHead               string    `json:"householdHead"`
	NumberOfHouseholdMembers    int       `json:"numberOfHouseholdMembers"`
	RelationshipToHouseholdHead string    `json:"relationshipToHouseholdHead"`
	Occupation                  string    `json:"occupation"`
	EmployerWorkplace           string    `json:"employerWorkplace"`
	EducationalAttainment       string    `json:"educationalAttainment"`
	TypeOfResidence             string    `json:"typeOfResidence"`
	BarangayIDNumber            string    `json:"barangayIdNumber"`
	VoterStatus                 string    `json:"voterStatus"`
	FourPsBeneficiary           string    `json:"fourPsBeneficiary"`
	PWDStatus                   string    `json:"pwdStatus"`
}

// requiredStrings lists every textual field that must be present. Age and
// household member count are validated separately as non-zero numbers.
func (r Resident) requiredStrings() []string {
	return []string{
		r.FirstName, r.MiddleInitial, r.Surname, r.DateOfBirth, r.CivilStatus,
		r.Gender, r.Religion, r.ContactNumber, r.HouseNumber, r.Street, r.Purok,
		r.HouseholdID, r.HouseholdHead, r.RelationshipToHouseholdHead,
		r.Occupation, r.EmployerWorkplace, r.EducationalAttainment,
		r.TypeOfResidence, r.BarangayIDNumber, r.VoterStatus,
		r.FourPsBeneficiary, r.PWDStatus,
	}
}

// Validate enforces the all-fields-required rule for direct creation.
func (r Resident) Validate() error {
	for _, field := range r.requiredStrings() {
		if field == "" {
			return ErrMissingFields
		}
	}
	if r.Age == 0 || r.NumberOfHouseholdMembers == 0 {
		return ErrMissingFields
	}
	return nil
}

// ValidateImported is the looser rule applied to CSV rows: numeric fields may
// have been coerced to zero, but every textual field must still be present.
func (r Resident) ValidateImported() error {
	for _, field := range r.requiredStrings() {
		if field == "" {
			return ErrMissingFields
		}
	}
	return nil
}
