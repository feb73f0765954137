package validation

import (
	"fmt"
	"log"
	"regexp"
	"time"

	"qc-backend/internal/timeutil"
)

var (
	cardNumberRe = regexp.MustCompile(`^\d{6}$`)
	cardInTextRe = regexp.MustCompile(`\d{6}`)
)

// ValidCardNumber reports whether a route card number is a 6-digit string.
func ValidCardNumber(cardNumber string) bool {
	return cardNumberRe.MatchString(cardNumber)
}

// ExtractCardNumber pulls the first 6-digit run out of a QR scanner payload.
// Returns "" when the payload carries no card number.
func ExtractCardNumber(payload string) string {
	return cardInTextRe.FindString(payload)
}

// DuplicateCheck answers whether an active shift already exists for the
// given (date, shift number) pair.
type DuplicateCheck func(date string, shiftNumber int) (bool, error)

// ValidateShiftData checks shift creation input and returns every violated
// rule, not just the first. The duplicate check only runs when the basic
// rules all pass and checkDup is non-nil.
func ValidateShiftData(date string, shiftNumber int, controllerNames []string, now time.Time, checkDup DuplicateCheck) []string {
	var errs []string

	if date == "" {
		errs = append(errs, "shift date is required")
	} else if parsed, err := timeutil.ParseDate(date); err != nil {
		errs = append(errs, "invalid date format, expected YYYY-MM-DD")
	} else {
		// Small buffer for shifts opened just before midnight
		limit := now.In(timeutil.Plant).AddDate(0, 0, 1)
		if parsed.After(limit) {
			errs = append(errs, "shift date cannot be in the future")
		}
	}

	if shiftNumber != 1 && shiftNumber != 2 {
		errs = append(errs, "shift number must be 1 or 2")
	}

	if len(controllerNames) == 0 {
		errs = append(errs, "at least one controller must be selected")
	}

	if len(errs) == 0 && checkDup != nil {
		dup, err := checkDup(date, shiftNumber)
		if err != nil {
			log.Printf("[Validation] duplicate shift check failed: %v", err)
			errs = append(errs, "failed to verify shift data")
		} else if dup {
			errs = append(errs, fmt.Sprintf("shift %d on %s is already active", shiftNumber, date))
		}
	}

	return errs
}

// ValidateControlData checks inspection counts. Errors block the save;
// warnings are informational only.
func ValidateControlData(totalCast, totalAccepted int, defects map[int]int) (errs, warnings []string) {
	if totalCast <= 0 {
		errs = append(errs, "cast count must be greater than 0")
	}
	if totalAccepted < 0 {
		errs = append(errs, "accepted count cannot be negative")
	}
	if totalAccepted > totalCast {
		errs = append(errs, "accepted count cannot exceed cast count")
	}

	totalDefects := 0
	for defectTypeID, count := range defects {
		if count < 0 {
			errs = append(errs, fmt.Sprintf("defect count for type %d cannot be negative", defectTypeID))
			continue
		}
		totalDefects += count
	}

	calculatedAccepted := totalCast - totalDefects
	if calculatedAccepted != totalAccepted {
		warnings = append(warnings, fmt.Sprintf("calculated accepted count (%d) does not match the stated one (%d)", calculatedAccepted, totalAccepted))
	}

	if totalCast > 0 {
		rejectRate := float64(totalDefects) / float64(totalCast) * 100
		if rejectRate > 50 {
			warnings = append(warnings, fmt.Sprintf("high reject rate: %.1f%%", rejectRate))
		} else if rejectRate > 30 {
			warnings = append(warnings, fmt.Sprintf("elevated reject rate: %.1f%%", rejectRate))
		}
	}

	if totalCast > 10000 {
		warnings = append(warnings, fmt.Sprintf("suspiciously large cast count: %d", totalCast))
	}
	if totalDefects > 5000 {
		warnings = append(warnings, fmt.Sprintf("suspiciously large defect count: %d", totalDefects))
	}

	return errs, warnings
}
