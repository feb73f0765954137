package repositories

import (
	"context"
	"errors"

	"qc-backend/internal/apperrors"
	"qc-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ShiftRepository struct {
	DB *pgxpool.Pool
}

func NewShiftRepository(db *pgxpool.Pool) *ShiftRepository {
	return &ShiftRepository{DB: db}
}

const shiftColumns = `id, to_char(shift_date, 'YYYY-MM-DD'), shift_number, supervisor_name,
		controller_names, start_time, end_time, status, created_at`

func scanShift(row pgx.Row) (*models.Shift, error) {
	var s models.Shift
	err := row.Scan(&s.ID, &s.Date, &s.ShiftNumber, &s.SupervisorName,
		&s.ControllerNames, &s.StartTime, &s.EndTime, &s.Status, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Get returns the shift or nil when it does not exist.
func (r *ShiftRepository) Get(ctx context.Context, shiftID int) (*models.Shift, error) {
	s, err := scanShift(r.DB.QueryRow(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE id=$1`, shiftID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Persistence("shifts.get", err)
	}
	return s, nil
}

// GetActive returns the shift only if it exists and is still active.
func (r *ShiftRepository) GetActive(ctx context.Context, shiftID int) (*models.Shift, error) {
	s, err := scanShift(r.DB.QueryRow(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE id=$1 AND status=$2`,
		shiftID, models.ShiftStatusActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Persistence("shifts.get_active", err)
	}
	return s, nil
}

// CheckDuplicate reports whether an active shift already exists for the
// (date, shift number) pair.
func (r *ShiftRepository) CheckDuplicate(ctx context.Context, date string, shiftNumber int) (bool, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(id) FROM shifts
         WHERE shift_date=$1 AND shift_number=$2 AND status=$3`,
		date, shiftNumber, models.ShiftStatusActive,
	).Scan(&count)
	if err != nil {
		return false, apperrors.Persistence("shifts.check_duplicate", err)
	}
	return count > 0, nil
}

// Create inserts a new active shift. The partial unique index on active
// (date, shift number) pairs is the authoritative duplicate guard; a unique
// violation comes back as DuplicateShiftError.
func (r *ShiftRepository) Create(ctx context.Context, s *models.Shift) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO shifts(shift_date, shift_number, supervisor_name, controller_names, start_time, status)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at`,
		s.Date, s.ShiftNumber, s.SupervisorName, s.ControllerNames, s.StartTime, s.Status,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return &apperrors.DuplicateShiftError{Date: s.Date, ShiftNumber: s.ShiftNumber}
		}
		return apperrors.Persistence("shifts.create", err)
	}
	return nil
}

// Close marks the shift closed with the given end time. The update is
// filtered on active status, so a second close never re-stamps end_time.
// Returns true when the shift exists, regardless of prior status.
func (r *ShiftRepository) Close(ctx context.Context, shiftID int, endTime string) (bool, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE shifts SET status=$1, end_time=$2 WHERE id=$3 AND status=$4`,
		models.ShiftStatusClosed, endTime, shiftID, models.ShiftStatusActive)
	if err != nil {
		return false, apperrors.Persistence("shifts.close", err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	var exists bool
	err = r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM shifts WHERE id=$1)`, shiftID).Scan(&exists)
	if err != nil {
		return false, apperrors.Persistence("shifts.close", err)
	}
	return exists, nil
}

// CloseWindow closes the active shift for one (date, shift number) pair at
// its scheduled end time. The window rules themselves live in the service,
// which decides when and with which pairs to call this.
func (r *ShiftRepository) CloseWindow(ctx context.Context, date string, shiftNumber int, endTime string) (int, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE shifts SET status=$1, end_time=$2
         WHERE shift_date=$3 AND shift_number=$4 AND status=$5`,
		models.ShiftStatusClosed, endTime, date, shiftNumber, models.ShiftStatusActive)
	if err != nil {
		return 0, apperrors.Persistence("shifts.close_window", err)
	}
	return int(tag.RowsAffected()), nil
}

// CloseExpiredBefore closes every active shift dated before the given day.
func (r *ShiftRepository) CloseExpiredBefore(ctx context.Context, date, endTime string) (int, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE shifts SET status=$1, end_time=$2
         WHERE shift_date < $3 AND status=$4`,
		models.ShiftStatusClosed, endTime, date, models.ShiftStatusActive)
	if err != nil {
		return 0, apperrors.Persistence("shifts.close_expired", err)
	}
	return int(tag.RowsAffected()), nil
}

// List returns shifts newest first.
func (r *ShiftRepository) List(ctx context.Context, limit int) ([]*models.Shift, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.DB.Query(ctx,
		`SELECT `+shiftColumns+` FROM shifts
         ORDER BY shift_date DESC, shift_number DESC LIMIT $1`, limit)
	if err != nil {
		return nil, apperrors.Persistence("shifts.list", err)
	}
	defer rows.Close()

	var shifts []*models.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, apperrors.Persistence("shifts.list", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}
