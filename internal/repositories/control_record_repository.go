package repositories

import (
	"context"
	"errors"

	"qc-backend/internal/apperrors"
	"qc-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ControlRecordRepository struct {
	DB *pgxpool.Pool
}

func NewControlRecordRepository(db *pgxpool.Pool) *ControlRecordRepository {
	return &ControlRecordRepository{DB: db}
}

// Save inserts the control record and its defect entries in one transaction.
// Zero-count defect entries are dropped, never stored.
func (r *ControlRecordRepository) Save(ctx context.Context, rec *models.ControlRecord, defects map[int]int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return apperrors.Persistence("control_records.save", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO control_records(shift_id, card_number, total_cast, total_accepted, controller_name, notes)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at`,
		rec.ShiftID, rec.CardNumber, rec.TotalCast, rec.TotalAccepted, rec.ControllerName, rec.Notes,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return apperrors.Persistence("control_records.save", err)
	}

	for defectTypeID, count := range defects {
		if count <= 0 {
			continue
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO defect_entries(control_record_id, defect_type_id, count)
             VALUES($1, $2, $3)`,
			rec.ID, defectTypeID, count)
		if err != nil {
			return apperrors.Persistence("control_records.save_defects", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.Persistence("control_records.save", err)
	}
	return nil
}

// Get returns the record or nil when it does not exist.
func (r *ControlRecordRepository) Get(ctx context.Context, recordID int) (*models.ControlRecord, error) {
	var rec models.ControlRecord
	err := r.DB.QueryRow(ctx,
		`SELECT id, shift_id, card_number, total_cast, total_accepted, controller_name, notes, created_at
         FROM control_records WHERE id=$1`, recordID,
	).Scan(&rec.ID, &rec.ShiftID, &rec.CardNumber, &rec.TotalCast, &rec.TotalAccepted,
		&rec.ControllerName, &rec.Notes, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Persistence("control_records.get", err)
	}
	return &rec, nil
}

// CheckCardProcessed reports whether any record anywhere references this
// card number. Global, not shift-scoped: a route card goes through final
// inspection exactly once.
func (r *ControlRecordRepository) CheckCardProcessed(ctx context.Context, cardNumber string) (bool, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(id) FROM control_records WHERE card_number=$1`, cardNumber,
	).Scan(&count)
	if err != nil {
		return false, apperrors.Persistence("control_records.check_card", err)
	}
	return count > 0, nil
}

// ListByShift returns a shift's records, most recent first.
func (r *ControlRecordRepository) ListByShift(ctx context.Context, shiftID int) ([]*models.ControlRecord, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, shift_id, card_number, total_cast, total_accepted, controller_name, notes, created_at
         FROM control_records WHERE shift_id=$1 ORDER BY created_at DESC`, shiftID)
	if err != nil {
		return nil, apperrors.Persistence("control_records.list_by_shift", err)
	}
	defer rows.Close()

	var records []*models.ControlRecord
	for rows.Next() {
		var rec models.ControlRecord
		err := rows.Scan(&rec.ID, &rec.ShiftID, &rec.CardNumber, &rec.TotalCast,
			&rec.TotalAccepted, &rec.ControllerName, &rec.Notes, &rec.CreatedAt)
		if err != nil {
			return nil, apperrors.Persistence("control_records.list_by_shift", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// GetRecordDefects returns a record's defect entries joined with type and
// category names.
func (r *ControlRecordRepository) GetRecordDefects(ctx context.Context, recordID int) ([]models.RecordDefect, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT de.id, dt.name, dc.name, de.count
         FROM defect_entries de
         JOIN defect_types dt ON de.defect_type_id = dt.id
         JOIN defect_categories dc ON dt.category_id = dc.id
         WHERE de.control_record_id=$1`, recordID)
	if err != nil {
		return nil, apperrors.Persistence("control_records.get_defects", err)
	}
	defer rows.Close()

	var defects []models.RecordDefect
	for rows.Next() {
		var d models.RecordDefect
		if err := rows.Scan(&d.ID, &d.DefectName, &d.CategoryName, &d.Count); err != nil {
			return nil, apperrors.Persistence("control_records.get_defects", err)
		}
		defects = append(defects, d)
	}
	return defects, rows.Err()
}

// GetShiftTotals aggregates a shift's ledger: record count, summed counts
// and the grouped defect breakdown sorted descending by count.
func (r *ControlRecordRepository) GetShiftTotals(ctx context.Context, shiftID int) (*models.ShiftTotals, error) {
	var t models.ShiftTotals
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(id), COALESCE(SUM(total_cast), 0), COALESCE(SUM(total_accepted), 0)
         FROM control_records WHERE shift_id=$1`, shiftID,
	).Scan(&t.TotalRecords, &t.TotalCast, &t.TotalAccepted)
	if err != nil {
		return nil, apperrors.Persistence("control_records.shift_totals", err)
	}

	rows, err := r.DB.Query(ctx,
		`SELECT dc.name, dt.name, SUM(de.count) AS total_count
         FROM defect_entries de
         JOIN control_records cr ON de.control_record_id = cr.id
         JOIN defect_types dt ON de.defect_type_id = dt.id
         JOIN defect_categories dc ON dt.category_id = dc.id
         WHERE cr.shift_id=$1
         GROUP BY dc.name, dt.name
         ORDER BY total_count DESC`, shiftID)
	if err != nil {
		return nil, apperrors.Persistence("control_records.shift_totals", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b models.DefectBreakdown
		if err := rows.Scan(&b.Category, &b.DefectName, &b.Count); err != nil {
			return nil, apperrors.Persistence("control_records.shift_totals", err)
		}
		t.Breakdown = append(t.Breakdown, b)
		t.TotalDefects += b.Count
	}
	return &t, rows.Err()
}

// Delete removes a record; its defect entries go with it via the cascade.
// Not a normal-path operation, kept for admin corrections.
func (r *ControlRecordRepository) Delete(ctx context.Context, recordID int) (bool, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM control_records WHERE id=$1`, recordID)
	if err != nil {
		return false, apperrors.Persistence("control_records.delete", err)
	}
	return tag.RowsAffected() > 0, nil
}
