package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qc-backend/internal/apperrors"
	"qc-backend/internal/models"
	"qc-backend/internal/timeutil"
)

// fakeShiftStore is an in-memory ShiftStore recording the calls the
// lifecycle makes against it.
type fakeShiftStore struct {
	shifts    map[int]*models.Shift
	nextID    int
	duplicate bool

	closeCalls []string
	sweepRan   bool
}

func newFakeShiftStore() *fakeShiftStore {
	return &fakeShiftStore{shifts: make(map[int]*models.Shift), nextID: 1}
}

func (f *fakeShiftStore) Get(ctx context.Context, shiftID int) (*models.Shift, error) {
	return f.shifts[shiftID], nil
}

func (f *fakeShiftStore) GetActive(ctx context.Context, shiftID int) (*models.Shift, error) {
	s := f.shifts[shiftID]
	if s == nil || s.Status != models.ShiftStatusActive {
		return nil, nil
	}
	return s, nil
}

func (f *fakeShiftStore) CheckDuplicate(ctx context.Context, date string, shiftNumber int) (bool, error) {
	return f.duplicate, nil
}

func (f *fakeShiftStore) Create(ctx context.Context, s *models.Shift) error {
	s.ID = f.nextID
	f.nextID++
	f.shifts[s.ID] = s
	return nil
}

func (f *fakeShiftStore) Close(ctx context.Context, shiftID int, endTime string) (bool, error) {
	f.closeCalls = append(f.closeCalls, endTime)
	s := f.shifts[shiftID]
	if s == nil {
		return false, nil
	}
	if s.Status == models.ShiftStatusActive {
		s.Status = models.ShiftStatusClosed
		s.EndTime = &endTime
	}
	return true, nil
}

func (f *fakeShiftStore) CloseWindow(ctx context.Context, date string, shiftNumber int, endTime string) (int, error) {
	f.sweepRan = true
	n := 0
	for _, s := range f.shifts {
		if s.Status == models.ShiftStatusActive && s.Date == date && s.ShiftNumber == shiftNumber {
			et := endTime
			s.Status = models.ShiftStatusClosed
			s.EndTime = &et
			n++
		}
	}
	return n, nil
}

func (f *fakeShiftStore) CloseExpiredBefore(ctx context.Context, date, endTime string) (int, error) {
	f.sweepRan = true
	n := 0
	for _, s := range f.shifts {
		if s.Status == models.ShiftStatusActive && s.Date < date {
			et := endTime
			s.Status = models.ShiftStatusClosed
			s.EndTime = &et
			n++
		}
	}
	return n, nil
}

func (f *fakeShiftStore) List(ctx context.Context, limit int) ([]*models.Shift, error) {
	var out []*models.Shift
	for _, s := range f.shifts {
		out = append(out, s)
	}
	return out, nil
}

func testClock(hour, min int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, 3, 14, hour, min, 0, 0, timeutil.Plant)
	}
}

func newTestShiftService(store *fakeShiftStore, hour, min int) *ShiftService {
	svc := NewShiftService(store, true)
	svc.now = testClock(hour, min)
	return svc
}

func TestCreateShift(t *testing.T) {
	store := newFakeShiftStore()
	svc := newTestShiftService(store, 7, 5)

	shift, err := svc.CreateShift(context.Background(), &models.CreateShiftRequest{
		Date:            "2026-03-14",
		ShiftNumber:     1,
		ControllerNames: []string{"Ivanova", "Petrova"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, shift.ID)
	assert.Equal(t, models.ShiftStatusActive, shift.Status)
	assert.Equal(t, "07:05", shift.StartTime)
	assert.Nil(t, shift.EndTime)
	assert.Equal(t, "inspectors", shift.SupervisorName, "supervisor defaults when omitted")
}

func TestCreateShiftValidationFails(t *testing.T) {
	store := newFakeShiftStore()
	svc := newTestShiftService(store, 7, 0)

	_, err := svc.CreateShift(context.Background(), &models.CreateShiftRequest{
		Date:        "bad-date",
		ShiftNumber: 5,
	})
	require.Error(t, err)

	messages, ok := apperrors.IsValidation(err)
	require.True(t, ok)
	assert.Len(t, messages, 3, "all violations reported together")
	assert.Empty(t, store.shifts, "nothing persisted on validation failure")
}

func TestCreateShiftDuplicate(t *testing.T) {
	store := newFakeShiftStore()
	store.duplicate = true
	svc := newTestShiftService(store, 7, 0)

	_, err := svc.CreateShift(context.Background(), &models.CreateShiftRequest{
		Date:            "2026-03-14",
		ShiftNumber:     1,
		ControllerNames: []string{"Ivanova"},
	})

	var dup *apperrors.DuplicateShiftError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "2026-03-14", dup.Date)
	assert.Equal(t, 1, dup.ShiftNumber)
}

func TestGetCurrentShiftSweepsFirst(t *testing.T) {
	store := newFakeShiftStore()
	svc := newTestShiftService(store, 19, 1)

	store.shifts[5] = &models.Shift{
		ID: 5, Date: "2026-03-14", ShiftNumber: 1, Status: models.ShiftStatusActive,
	}

	shift, err := svc.GetCurrentShift(context.Background(), 5)
	require.NoError(t, err)
	assert.Nil(t, shift, "shift closed by the piggybacked sweep comes back nil")
	assert.Equal(t, models.ShiftStatusClosed, store.shifts[5].Status)
}

func TestGetCurrentShiftReturnsActive(t *testing.T) {
	store := newFakeShiftStore()
	svc := newTestShiftService(store, 10, 0)

	created, err := svc.CreateShift(context.Background(), &models.CreateShiftRequest{
		Date:            "2026-03-14",
		ShiftNumber:     1,
		ControllerNames: []string{"Ivanova"},
	})
	require.NoError(t, err)

	shift, err := svc.GetCurrentShift(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, shift)
	assert.Equal(t, created.ID, shift.ID)
}

func TestGetCurrentShiftClosedComesBackNil(t *testing.T) {
	store := newFakeShiftStore()
	svc := newTestShiftService(store, 10, 0)

	created, _ := svc.CreateShift(context.Background(), &models.CreateShiftRequest{
		Date:            "2026-03-14",
		ShiftNumber:     1,
		ControllerNames: []string{"Ivanova"},
	})

	ok, err := svc.CloseShift(context.Background(), created.ID)
	require.NoError(t, err)
	require.True(t, ok)

	shift, err := svc.GetCurrentShift(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, shift)
}

func TestCloseShiftStampsWallClock(t *testing.T) {
	store := newFakeShiftStore()
	svc := newTestShiftService(store, 18, 47)

	created, _ := svc.CreateShift(context.Background(), &models.CreateShiftRequest{
		Date:            "2026-03-14",
		ShiftNumber:     1,
		ControllerNames: []string{"Ivanova"},
	})

	ok, err := svc.CloseShift(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotNil(t, store.shifts[created.ID].EndTime)
	assert.Equal(t, "18:47", *store.shifts[created.ID].EndTime)
}

func TestCloseShiftIdempotent(t *testing.T) {
	store := newFakeShiftStore()
	svc := newTestShiftService(store, 19, 0)

	created, _ := svc.CreateShift(context.Background(), &models.CreateShiftRequest{
		Date:            "2026-03-14",
		ShiftNumber:     1,
		ControllerNames: []string{"Ivanova"},
	})

	first, err := svc.CloseShift(context.Background(), created.ID)
	require.NoError(t, err)
	second, err := svc.CloseShift(context.Background(), created.ID)
	require.NoError(t, err)

	assert.True(t, first)
	assert.True(t, second, "closing an already closed shift still reports success")
}

func TestCloseShiftMissing(t *testing.T) {
	store := newFakeShiftStore()
	svc := newTestShiftService(store, 12, 0)

	ok, err := svc.CloseShift(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSweepDisabled(t *testing.T) {
	store := newFakeShiftStore()
	svc := NewShiftService(store, false)
	svc.now = testClock(19, 30)

	_, err := svc.GetCurrentShift(context.Background(), 0)
	require.NoError(t, err)
	assert.False(t, store.sweepRan, "sweep must not run when auto-close is disabled")
}

func TestPlanSweep(t *testing.T) {
	t.Run("after evening cutoff", func(t *testing.T) {
		plan := planSweep(testClock(19, 1)())
		assert.Equal(t, "2026-03-14", plan.ExpiredBefore)
		assert.Equal(t, "19:01", plan.ExpiredEndTime)
		require.Len(t, plan.Windows, 1)
		assert.Equal(t, sweepWindow{Date: "2026-03-14", ShiftNumber: 1, EndTime: "19:00"}, plan.Windows[0])
	})

	t.Run("exactly at evening cutoff", func(t *testing.T) {
		plan := planSweep(testClock(19, 0)())
		assert.Empty(t, plan.Windows, "19:00 sharp is outside both windows")
	})

	t.Run("during the day", func(t *testing.T) {
		plan := planSweep(testClock(10, 30)())
		require.Len(t, plan.Windows, 1)
		assert.Equal(t, sweepWindow{Date: "2026-03-13", ShiftNumber: 2, EndTime: "07:00"}, plan.Windows[0])
	})

	t.Run("exactly at morning cutoff", func(t *testing.T) {
		plan := planSweep(testClock(7, 0)())
		assert.Empty(t, plan.Windows, "07:00 sharp is outside both windows")
	})

	t.Run("night", func(t *testing.T) {
		plan := planSweep(testClock(3, 0)())
		assert.Empty(t, plan.Windows)
		assert.Equal(t, "2026-03-14", plan.ExpiredBefore)
	})
}

func TestAutoCloseClosesPastShiftsAtAnyHour(t *testing.T) {
	store := newFakeShiftStore()
	svc := newTestShiftService(store, 3, 0)

	store.shifts[1] = &models.Shift{
		ID: 1, Date: "2026-03-12", ShiftNumber: 1, Status: models.ShiftStatusActive,
	}

	require.NoError(t, svc.AutoCloseExpiredShifts(context.Background()))
	assert.Equal(t, models.ShiftStatusClosed, store.shifts[1].Status)
	require.NotNil(t, store.shifts[1].EndTime)
	assert.Equal(t, "03:00", *store.shifts[1].EndTime)
}

func TestAutoCloseShiftOneAfterEveningCutoff(t *testing.T) {
	store := newFakeShiftStore()
	svc := newTestShiftService(store, 19, 1)

	store.shifts[1] = &models.Shift{
		ID: 1, Date: "2026-03-14", ShiftNumber: 1, Status: models.ShiftStatusActive,
	}
	store.shifts[2] = &models.Shift{
		ID: 2, Date: "2026-03-14", ShiftNumber: 2, Status: models.ShiftStatusActive,
	}

	require.NoError(t, svc.AutoCloseExpiredShifts(context.Background()))

	assert.Equal(t, models.ShiftStatusClosed, store.shifts[1].Status)
	require.NotNil(t, store.shifts[1].EndTime)
	assert.Equal(t, "19:00", *store.shifts[1].EndTime, "closes at the scheduled end, not the current time")

	assert.Equal(t, models.ShiftStatusActive, store.shifts[2].Status,
		"today's night shift is untouched by the evening rule")
}

func TestAutoCloseShiftTwoMorningWindow(t *testing.T) {
	store := newFakeShiftStore()
	svc := newTestShiftService(store, 10, 30)

	store.shifts[1] = &models.Shift{
		ID: 1, Date: "2026-03-13", ShiftNumber: 2, Status: models.ShiftStatusActive,
	}

	require.NoError(t, svc.AutoCloseExpiredShifts(context.Background()))
	assert.Equal(t, models.ShiftStatusClosed, store.shifts[1].Status)
	require.NotNil(t, store.shifts[1].EndTime)
	assert.Equal(t, "07:00", *store.shifts[1].EndTime,
		"window rule stamps 07:00 before the expired catch-all can reach it")
}
