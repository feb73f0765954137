package repositories

import (
	"context"
	"errors"
	"fmt"

	"qc-backend/internal/apperrors"
	"qc-backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ControllerRepository struct {
	DB *pgxpool.Pool
}

func NewControllerRepository(db *pgxpool.Pool) *ControllerRepository {
	return &ControllerRepository{DB: db}
}

func (r *ControllerRepository) List(ctx context.Context, activeOnly bool) ([]*models.Controller, error) {
	query := `SELECT id, name, active, created_at FROM controllers`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, apperrors.Persistence("controllers.list", err)
	}
	defer rows.Close()

	var controllers []*models.Controller
	for rows.Next() {
		var c models.Controller
		if err := rows.Scan(&c.ID, &c.Name, &c.Active, &c.CreatedAt); err != nil {
			return nil, apperrors.Persistence("controllers.list", err)
		}
		controllers = append(controllers, &c)
	}
	return controllers, rows.Err()
}

func (r *ControllerRepository) Add(ctx context.Context, name string) (*models.Controller, error) {
	c := &models.Controller{Name: name, Active: true}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO controllers(name, active) VALUES($1, TRUE)
         RETURNING id, created_at`, name,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.NewValidation(fmt.Sprintf("controller %q already exists", name))
		}
		return nil, apperrors.Persistence("controllers.add", err)
	}
	return c, nil
}

// ToggleActive flips the active flag. Returns false when the controller
// does not exist.
func (r *ControllerRepository) ToggleActive(ctx context.Context, controllerID int) (bool, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE controllers SET active = NOT active WHERE id=$1`, controllerID)
	if err != nil {
		return false, apperrors.Persistence("controllers.toggle", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete is a hard delete. Shifts carry a denormalized name snapshot, so
// history is unaffected.
func (r *ControllerRepository) Delete(ctx context.Context, controllerID int) (bool, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM controllers WHERE id=$1`, controllerID)
	if err != nil {
		return false, apperrors.Persistence("controllers.delete", err)
	}
	return tag.RowsAffected() > 0, nil
}
