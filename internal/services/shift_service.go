package services

import (
	"context"
	"log"
	"time"

	"qc-backend/internal/apperrors"
	"qc-backend/internal/metrics"
	"qc-backend/internal/models"
	"qc-backend/internal/timeutil"
	"qc-backend/internal/validation"
)

// ShiftStore is the persistence surface the lifecycle needs. Satisfied by
// repositories.ShiftRepository.
type ShiftStore interface {
	Get(ctx context.Context, shiftID int) (*models.Shift, error)
	GetActive(ctx context.Context, shiftID int) (*models.Shift, error)
	CheckDuplicate(ctx context.Context, date string, shiftNumber int) (bool, error)
	Create(ctx context.Context, s *models.Shift) error
	Close(ctx context.Context, shiftID int, endTime string) (bool, error)
	CloseWindow(ctx context.Context, date string, shiftNumber int, endTime string) (int, error)
	CloseExpiredBefore(ctx context.Context, date, endTime string) (int, error)
	List(ctx context.Context, limit int) ([]*models.Shift, error)
}

const defaultSupervisorName = "inspectors"

type ShiftService struct {
	Store            ShiftStore
	AutoCloseEnabled bool

	// now is swapped out in tests; the auto-close rules are pure
	// wall-clock heuristics
	now func() time.Time
}

func NewShiftService(store ShiftStore, autoCloseEnabled bool) *ShiftService {
	return &ShiftService{
		Store:            store,
		AutoCloseEnabled: autoCloseEnabled,
		now:              timeutil.Now,
	}
}

// CreateShift opens a new active shift. All validation failures come back
// together as one ValidationError; a still-active shift for the same
// (date, shift number) pair is a DuplicateShiftError.
func (s *ShiftService) CreateShift(ctx context.Context, req *models.CreateShiftRequest) (*models.Shift, error) {
	if errs := validation.ValidateShiftData(req.Date, req.ShiftNumber, req.ControllerNames, s.now(), nil); len(errs) > 0 {
		return nil, apperrors.NewValidation(errs...)
	}

	dup, err := s.Store.CheckDuplicate(ctx, req.Date, req.ShiftNumber)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, &apperrors.DuplicateShiftError{Date: req.Date, ShiftNumber: req.ShiftNumber}
	}

	supervisor := req.SupervisorName
	if supervisor == "" {
		supervisor = defaultSupervisorName
	}

	shift := &models.Shift{
		Date:            req.Date,
		ShiftNumber:     req.ShiftNumber,
		SupervisorName:  supervisor,
		ControllerNames: req.ControllerNames,
		StartTime:       s.now().Format(timeutil.ClockLayout),
		Status:          models.ShiftStatusActive,
	}
	if err := s.Store.Create(ctx, shift); err != nil {
		return nil, err
	}

	metrics.ShiftsCreated.Inc()
	log.Printf("[Shifts] Created shift %d for %s, shift number %d", shift.ID, shift.Date, shift.ShiftNumber)
	return shift, nil
}

// GetCurrentShift resolves the caller's tracked shift id. The auto-close
// sweep piggybacks on every call; a shift closed by the sweep (or any other
// path) comes back as nil so the caller drops its pointer.
func (s *ShiftService) GetCurrentShift(ctx context.Context, shiftID int) (*models.Shift, error) {
	s.sweep(ctx)

	if shiftID == 0 {
		return nil, nil
	}
	return s.Store.GetActive(ctx, shiftID)
}

// CloseShift closes the shift at the current wall-clock time. Best-effort:
// returns false only when the shift does not exist; closing an already
// closed shift is a no-op that still reports true.
func (s *ShiftService) CloseShift(ctx context.Context, shiftID int) (bool, error) {
	ok, err := s.Store.Close(ctx, shiftID, s.now().Format(timeutil.ClockLayout))
	if err != nil {
		return false, err
	}
	if ok {
		metrics.ShiftsClosed.WithLabelValues("manual").Inc()
		log.Printf("[Shifts] Closed shift %d", shiftID)
	}
	return ok, nil
}

// sweepWindow closes the active shift for one (date, shift number) pair at
// its scheduled end time.
type sweepWindow struct {
	Date        string
	ShiftNumber int
	EndTime     string
}

// sweepPlan is what the wall-clock rules demand at one instant. Windows
// apply before the expired catch-all so a shift inside its grace window
// gets its scheduled end time rather than the current one.
type sweepPlan struct {
	Windows        []sweepWindow
	ExpiredBefore  string
	ExpiredEndTime string
}

// planSweep evaluates the auto-close rules against the plant clock:
//  1. after 19:00, today's shift 1 closes at 19:00
//  2. between 07:00 and 19:00 exclusive, yesterday's shift 2 closes at 07:00
//  3. any other active shift dated before today closes at the current time
func planSweep(now time.Time) sweepPlan {
	now = now.In(timeutil.Plant)
	currentDate := now.Format(timeutil.DateLayout)
	currentTime := now.Format(timeutil.ClockLayout)
	yesterday := now.AddDate(0, 0, -1).Format(timeutil.DateLayout)

	plan := sweepPlan{ExpiredBefore: currentDate, ExpiredEndTime: currentTime}
	if currentTime > "19:00" {
		plan.Windows = append(plan.Windows, sweepWindow{Date: currentDate, ShiftNumber: 1, EndTime: "19:00"})
	}
	if currentTime > "07:00" && currentTime < "19:00" {
		plan.Windows = append(plan.Windows, sweepWindow{Date: yesterday, ShiftNumber: 2, EndTime: "07:00"})
	}
	return plan
}

// AutoCloseExpiredShifts applies the time-window rules against the current
// plant clock.
func (s *ShiftService) AutoCloseExpiredShifts(ctx context.Context) error {
	plan := planSweep(s.now())

	closed := 0
	for _, w := range plan.Windows {
		n, err := s.Store.CloseWindow(ctx, w.Date, w.ShiftNumber, w.EndTime)
		if err != nil {
			return err
		}
		closed += n
	}
	n, err := s.Store.CloseExpiredBefore(ctx, plan.ExpiredBefore, plan.ExpiredEndTime)
	if err != nil {
		return err
	}
	closed += n

	if closed > 0 {
		metrics.ShiftsClosed.WithLabelValues("auto").Add(float64(closed))
		log.Printf("[Shifts] Auto-closed %d expired shift(s)", closed)
	}
	return nil
}

// sweep runs the auto-close rules, logging instead of failing: a read path
// must not break because housekeeping did.
func (s *ShiftService) sweep(ctx context.Context) {
	if !s.AutoCloseEnabled {
		return
	}
	if err := s.AutoCloseExpiredShifts(ctx); err != nil {
		log.Printf("[Shifts] Auto-close sweep failed: %v", err)
	}
}

// CheckDuplicate reports whether an active shift exists for the pair.
func (s *ShiftService) CheckDuplicate(ctx context.Context, date string, shiftNumber int) (bool, error) {
	return s.Store.CheckDuplicate(ctx, date, shiftNumber)
}

// ValidateShiftData runs the full creation validation, duplicate check
// included, for the pre-save validation endpoint.
func (s *ShiftService) ValidateShiftData(ctx context.Context, date string, shiftNumber int, controllerNames []string) []string {
	return validation.ValidateShiftData(date, shiftNumber, controllerNames, s.now(),
		func(d string, n int) (bool, error) {
			return s.Store.CheckDuplicate(ctx, d, n)
		})
}

// ListShifts returns recent shifts, newest first. Runs the sweep so listed
// statuses are current.
func (s *ShiftService) ListShifts(ctx context.Context, limit int) ([]*models.Shift, error) {
	s.sweep(ctx)
	return s.Store.List(ctx, limit)
}

// GetShift returns one shift without requiring it to be active.
func (s *ShiftService) GetShift(ctx context.Context, shiftID int) (*models.Shift, error) {
	s.sweep(ctx)
	return s.Store.Get(ctx, shiftID)
}
