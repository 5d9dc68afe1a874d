package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatReferenceCode(t *testing.T) {
	assert.Equal(t, "HWL-2026-000001", FormatReferenceCode(2026, 1))
	assert.Equal(t, "HWL-2026-000042", FormatReferenceCode(2026, 42))
	assert.Equal(t, "HWL-2026-123456", FormatReferenceCode(2026, 123456))
}

func TestIsReferenceCode(t *testing.T) {
	assert.True(t, IsReferenceCode("HWL-2026-000001"))
	assert.False(t, IsReferenceCode("HWL-26-000001"))
	assert.False(t, IsReferenceCode("HWL-2026-1"))
	assert.False(t, IsReferenceCode("hwl-2026-000001"))
	assert.False(t, IsReferenceCode("PV-2026-000001"))
	assert.False(t, IsReferenceCode(""))
}
