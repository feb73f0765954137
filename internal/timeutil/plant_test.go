package timeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, "2026-03-14", d.Format(DateLayout))
	assert.Equal(t, Plant, d.Location())

	_, err = ParseDate("14.03.2026")
	assert.Error(t, err)
}

func TestPreviousDay(t *testing.T) {
	assert.Equal(t, "2026-03-13", PreviousDay("2026-03-14"))
	assert.Equal(t, "2026-02-28", PreviousDay("2026-03-01"))
	assert.Equal(t, "2025-12-31", PreviousDay("2026-01-01"))

	// Unparseable input passes through
	assert.Equal(t, "garbage", PreviousDay("garbage"))
}

func TestShiftWindow(t *testing.T) {
	start, end := ShiftWindow(1)
	assert.Equal(t, "07:00", start)
	assert.Equal(t, "19:00", end)

	start, end = ShiftWindow(2)
	assert.Equal(t, "19:00", start)
	assert.Equal(t, "07:00", end)

	// Unknown numbers fall back to the day shift window
	start, end = ShiftWindow(9)
	assert.Equal(t, "07:00", start)
	assert.Equal(t, "19:00", end)
}
