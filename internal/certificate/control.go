package certificate

import (
	"fmt"
	"math/rand/v2"
	"time"
)

var typePrefixes = map[string]string{
	TypeClearance: "BC",
	TypeResidency: "CR",
	TypeIndigency: "CI",
}

// fallbackPrefix is used for types outside the prefix table.
const fallbackPrefix = "CT"

// GenerateControlNumber builds {prefix}{YY}{MM}{4 random digits}. Numbers are
// not globally serialized; the unique constraint catches the rare collision.
func GenerateControlNumber(certType string) string {
	return formatControlNumber(certType, time.Now(), 1000+rand.IntN(9000))
}

func formatControlNumber(certType string, now time.Time, suffix int) string {
	prefix, ok := typePrefixes[certType]
	if !ok {
		prefix = fallbackPrefix
	}
	return fmt.Sprintf("%s%02d%02d%04d", prefix, now.Year()%100, int(now.Month()), suffix)
}
