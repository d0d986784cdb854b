package validation

import (
	"crypto/rand"
	"io"
	"math/big"
	"time"

	"github.com/hilamalka1/onboard-api/internal/models"
)

const (
	generatedCodePrefix = "CRS-"
	generatedCodeLength = 6
	base36Alphabet      = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NotInPast reports whether date is today or later, compared to local midnight of now.
func NotInPast(date models.Date, now time.Time) bool {
	if date.IsZero() {
		return false
	}
	return !date.Before(models.NewDate(now).Time)
}

// EndNotBeforeStart reports whether end does not precede start. Both are HH:MM; an empty end passes.
func EndNotBeforeStart(start, end string) bool {
	if end == "" || start == "" {
		return true
	}
	return end >= start
}

// GenerateCourseCode returns "CRS-" followed by six random base36 upper-case characters.
// src defaults to crypto/rand when nil.
func GenerateCourseCode(src io.Reader) (string, error) {
	if src == nil {
		src = rand.Reader
	}
	max := big.NewInt(int64(len(base36Alphabet)))
	code := make([]byte, 0, len(generatedCodePrefix)+generatedCodeLength)
	code = append(code, generatedCodePrefix...)
	for i := 0; i < generatedCodeLength; i++ {
		n, err := rand.Int(src, max)
		if err != nil {
			return "", err
		}
		code = append(code, base36Alphabet[n.Int64()])
	}
	return string(code), nil
}
