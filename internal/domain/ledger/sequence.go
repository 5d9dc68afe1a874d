package ledger

import (
	"fmt"
	"regexp"
	"time"
)

// ReferenceSequence is the year-scoped counter backing transfer reference
// codes. One row per year; the counter only moves through the repository's
// atomic increment, never by direct assignment. On the first issue of a new
// year the counter starts over at 1 regardless of the previous year's value.
type ReferenceSequence struct {
	Year      int       `gorm:"primaryKey;autoIncrement:false" json:"year"`
	Counter   int64     `gorm:"not null" json:"counter"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM
func (ReferenceSequence) TableName() string {
	return "reference_sequences"
}

var referenceCodePattern = regexp.MustCompile(`^HWL-\d{4}-\d{6}$`)

// FormatReferenceCode renders the human-facing transfer identifier,
// e.g. HWL-2026-000042.
func FormatReferenceCode(year int, number int64) string {
	return fmt.Sprintf("HWL-%04d-%06d", year, number)
}

// IsReferenceCode reports whether a string matches the HWL-YYYY-NNNNNN shape
func IsReferenceCode(code string) bool {
	return referenceCodePattern.MatchString(code)
}
