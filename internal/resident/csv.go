package resident

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ImportResult reports what happened to each CSV row. Saved, skipped and
// errored rows always sum to the number of data rows read.
type ImportResult struct {
	SavedCount   int        `json:"savedCount"`
	SkippedCount int        `json:"skippedCount"`
	ErrorCount   int        `json:"errorCount"`
	Residents    []Resident `json:"residents"`
}

// Import stream-parses a CSV export and inserts each new row. Rows whose
// public id is already registered are skipped; rows missing required fields
// or failing to insert are counted as errors.
func (s *Service) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &ImportResult{Residents: []Resident{}}, nil
		}
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	result := &ImportResult{Residents: []Resident{}}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.ErrorCount++
			continue
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		res := Resident{
			ID:                          field("id"),
			FirstName:                   field("firstName"),
			MiddleInitial:               field("middleInitial"),
			Surname:                     field("surname"),
			DateOfBirth:                 field("dateOfBirth"),
			Age:                         atoiOrZero(field("age")),
			CivilStatus:                 field("civilStatus"),
			Gender:                      field("gender"),
			Religion:                    field("religion"),
			ContactNumber:               field("contactNumber"),
			HouseNumber:                 field("houseNumber"),
			Street:                      field("street"),
			Purok:                       field("purok"),
			HouseholdID:                 field("householdId"),
			HouseholdHead:               field("householdHead"),
			NumberOfHouseholdMembers:    atoiOrZero(field("numberOfHouseholdMembers")),
			RelationshipToHouseholdHead: field("relationshipToHouseholdHead"),
			Occupation:                  field("occupation"),
			EmployerWorkplace:           field("employerWorkplace"),
			EducationalAttainment:       field("educationalAttainment"),
			TypeOfResidence:             field("typeOfResidence"),
			BarangayIDNumber:            field("barangayIdNumber"),
			VoterStatus:                 field("voterStatus"),
			FourPsBeneficiary:           field("fourPsBeneficiary"),
			PWDStatus:                   field("pwdStatus"),
		}

		if res.ID != "" {
			exists, err := s.store.PublicIDExists(ctx, res.ID)
			if err != nil {
				return nil, err
			}
			if exists {
				result.SkippedCount++
				continue
			}
		} else {
			res.ID = uuid.NewString()
		}

		if err := res.ValidateImported(); err != nil {
			result.ErrorCount++
			continue
		}

		res.RecordID = uuid.New()
		saved, err := s.store.Insert(ctx, res)
		if err != nil {
			log.Warn().Err(err).Str("resident_id", res.ID).Msg("csv row rejected")
			result.ErrorCount++
			continue
		}

		result.Residents = append(result.Residents, saved)
		result.SavedCount++
	}

	return result, nil
}

// atoiOrZero mirrors the import coercion rule: unparseable numbers become 0.
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
