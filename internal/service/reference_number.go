package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const referenceLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ReferenceNumber formats SUM-YYYYMMDD-XXXXX. The suffix is derived from the
// first five bytes of id: even bytes map to a letter, odd bytes to a digit.
func ReferenceNumber(id uuid.UUID, at time.Time) string {
	var suffix strings.Builder
	for _, b := range id[:5] {
		v := int(b)
		if v%2 == 0 {
			suffix.WriteByte(referenceLetters[v%26])
		} else {
			suffix.WriteByte(byte('0' + v%10))
		}
	}
	return "SUM-" + at.Format("20060102") + "-" + suffix.String()
}
