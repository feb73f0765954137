package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"qc-backend/internal/timeutil"
)

var testNow = time.Date(2026, 3, 14, 10, 30, 0, 0, timeutil.Plant)

func TestValidateShiftData(t *testing.T) {
	controllers := []string{"Ivanova"}

	tests := []struct {
		name        string
		date        string
		shiftNumber int
		controllers []string
		wantErrs    []string
	}{
		{
			name:        "valid shift",
			date:        "2026-03-14",
			shiftNumber: 1,
			controllers: controllers,
		},
		{
			name:        "missing date",
			shiftNumber: 1,
			controllers: controllers,
			wantErrs:    []string{"shift date is required"},
		},
		{
			name:        "malformed date",
			date:        "14.03.2026",
			shiftNumber: 2,
			controllers: controllers,
			wantErrs:    []string{"invalid date format, expected YYYY-MM-DD"},
		},
		{
			name:        "future date",
			date:        "2026-04-01",
			shiftNumber: 1,
			controllers: controllers,
			wantErrs:    []string{"shift date cannot be in the future"},
		},
		{
			name:        "tomorrow allowed for shifts opened near midnight",
			date:        "2026-03-15",
			shiftNumber: 2,
			controllers: controllers,
		},
		{
			name:        "bad shift number",
			date:        "2026-03-14",
			shiftNumber: 3,
			controllers: controllers,
			wantErrs:    []string{"shift number must be 1 or 2"},
		},
		{
			name:        "no controllers",
			date:        "2026-03-14",
			shiftNumber: 1,
			wantErrs:    []string{"at least one controller must be selected"},
		},
		{
			name:        "all rules reported together",
			shiftNumber: 0,
			wantErrs: []string{
				"shift date is required",
				"shift number must be 1 or 2",
				"at least one controller must be selected",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateShiftData(tt.date, tt.shiftNumber, tt.controllers, testNow, nil)
			assert.Equal(t, tt.wantErrs, errs)
		})
	}
}

func TestValidateShiftDataDuplicateCheck(t *testing.T) {
	dup := func(date string, shiftNumber int) (bool, error) { return true, nil }
	errs := ValidateShiftData("2026-03-14", 1, []string{"Ivanova"}, testNow, dup)
	assert.Equal(t, []string{"shift 1 on 2026-03-14 is already active"}, errs)
}

func TestValidateShiftDataDuplicateCheckSkippedOnBasicErrors(t *testing.T) {
	called := false
	dup := func(date string, shiftNumber int) (bool, error) {
		called = true
		return false, nil
	}
	ValidateShiftData("", 1, []string{"Ivanova"}, testNow, dup)
	assert.False(t, called, "duplicate check must not run when basic validation fails")
}

func TestValidateShiftDataDuplicateCheckFailure(t *testing.T) {
	dup := func(date string, shiftNumber int) (bool, error) {
		return false, errors.New("db down")
	}
	errs := ValidateShiftData("2026-03-14", 1, []string{"Ivanova"}, testNow, dup)
	assert.Equal(t, []string{"failed to verify shift data"}, errs)
}

func TestValidateControlData(t *testing.T) {
	t.Run("valid with matching counts", func(t *testing.T) {
		errs, warnings := ValidateControlData(100, 95, map[int]int{1: 5})
		assert.Empty(t, errs)
		assert.Empty(t, warnings)
	})

	t.Run("zero cast", func(t *testing.T) {
		errs, _ := ValidateControlData(0, 0, nil)
		assert.Contains(t, errs, "cast count must be greater than 0")
	})

	t.Run("negative accepted", func(t *testing.T) {
		errs, _ := ValidateControlData(10, -1, nil)
		assert.Contains(t, errs, "accepted count cannot be negative")
	})

	t.Run("accepted exceeds cast", func(t *testing.T) {
		errs, _ := ValidateControlData(10, 11, nil)
		assert.Contains(t, errs, "accepted count cannot exceed cast count")
	})

	t.Run("negative defect count", func(t *testing.T) {
		errs, _ := ValidateControlData(10, 10, map[int]int{3: -2})
		assert.Contains(t, errs, "defect count for type 3 cannot be negative")
	})

	t.Run("count mismatch warns", func(t *testing.T) {
		errs, warnings := ValidateControlData(100, 90, map[int]int{1: 5})
		assert.Empty(t, errs)
		assert.Contains(t, warnings, "calculated accepted count (95) does not match the stated one (90)")
	})

	t.Run("elevated reject rate warns", func(t *testing.T) {
		_, warnings := ValidateControlData(100, 60, map[int]int{1: 40})
		assert.Contains(t, warnings, "elevated reject rate: 40.0%")
	})

	t.Run("high reject rate warns", func(t *testing.T) {
		_, warnings := ValidateControlData(100, 40, map[int]int{1: 60})
		assert.Contains(t, warnings, "high reject rate: 60.0%")
	})

	t.Run("implausible volumes warn", func(t *testing.T) {
		_, warnings := ValidateControlData(20000, 13000, map[int]int{1: 7000})
		assert.Contains(t, warnings, "suspiciously large cast count: 20000")
		assert.Contains(t, warnings, "suspiciously large defect count: 7000")
	})
}

func TestValidCardNumber(t *testing.T) {
	assert.True(t, ValidCardNumber("123456"))
	assert.False(t, ValidCardNumber("12345"))
	assert.False(t, ValidCardNumber("1234567"))
	assert.False(t, ValidCardNumber("12a456"))
	assert.False(t, ValidCardNumber(""))
}

func TestExtractCardNumber(t *testing.T) {
	assert.Equal(t, "482910", ExtractCardNumber("CARD:482910;LOT=7"))
	assert.Equal(t, "482910", ExtractCardNumber("482910"))
	assert.Equal(t, "", ExtractCardNumber("no digits here"))
	assert.Equal(t, "", ExtractCardNumber("12345"))
}
