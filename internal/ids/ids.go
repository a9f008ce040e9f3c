package ids

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// suffixLength is the number of random base36 characters in an assignment id
const suffixLength = 6

// NewAssignmentID generates an id in the format "ss-<yyyymmddhhmmssmmm>-<6 base36 chars>"
func NewAssignmentID(now time.Time) (string, error) {
	suffix, err := randomString(base36, suffixLength)
	if err != nil {
		return "", err
	}

	stamp := strings.Replace(now.UTC().Format("20060102150405.000"), ".", "", 1)
	return "ss-" + stamp + "-" + suffix, nil
}

// NewSeed generates the shuffle seed for a new assignment
func NewSeed() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// ShortID returns the timestamp segment of an assignment id, which result
// reports quote so a teacher can match them to a link
func ShortID(id string) string {
	parts := strings.Split(id, "-")
	if len(parts) < 2 || parts[1] == "" {
		return id
	}
	return parts[1]
}

// randomString picks n characters from chars using crypto/rand
func randomString(chars string, n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(chars)))

	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = chars[num.Int64()]
	}

	return string(out), nil
}
