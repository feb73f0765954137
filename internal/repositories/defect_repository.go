package repositories

import (
	"context"
	"log"

	"qc-backend/internal/apperrors"
	"qc-backend/internal/config"
	"qc-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DefectRepository struct {
	DB *pgxpool.Pool
}

func NewDefectRepository(db *pgxpool.Pool) *DefectRepository {
	return &DefectRepository{DB: db}
}

// Seed loads the defect taxonomy from configuration. Safe to run on every
// startup: existing categories and types are left untouched.
func (r *DefectRepository) Seed(ctx context.Context, seed []config.DefectSeedCategory) error {
	for i, cat := range seed {
		var categoryID int
		err := r.DB.QueryRow(ctx,
			`INSERT INTO defect_categories(name, description, sort_order)
             VALUES($1, $2, $3)
             ON CONFLICT (name) DO UPDATE SET sort_order = EXCLUDED.sort_order
             RETURNING id`,
			cat.Name, cat.Description, i,
		).Scan(&categoryID)
		if err != nil {
			return apperrors.Persistence("defects.seed_category", err)
		}

		for j, typeName := range cat.Types {
			_, err := r.DB.Exec(ctx,
				`INSERT INTO defect_types(category_id, name, sort_order)
                 VALUES($1, $2, $3)
                 ON CONFLICT (category_id, name) DO NOTHING`,
				categoryID, typeName, j)
			if err != nil {
				return apperrors.Persistence("defects.seed_type", err)
			}
		}
	}
	log.Printf("[Defects] Taxonomy seeded (%d categories)", len(seed))
	return nil
}

// GetAllTypesGrouped returns active defect types grouped by category, both
// levels in sort order, as the inspection form expects them.
func (r *DefectRepository) GetAllTypesGrouped(ctx context.Context) ([]models.DefectCategoryGroup, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT dc.id, dc.name, dt.id, dt.name
         FROM defect_categories dc
         JOIN defect_types dt ON dt.category_id = dc.id
         WHERE dt.active
         ORDER BY dc.sort_order, dc.name, dt.sort_order, dt.name`)
	if err != nil {
		return nil, apperrors.Persistence("defects.list_grouped", err)
	}
	defer rows.Close()

	var groups []models.DefectCategoryGroup
	index := make(map[int]int)
	for rows.Next() {
		var categoryID, typeID int
		var categoryName, typeName string
		if err := rows.Scan(&categoryID, &categoryName, &typeID, &typeName); err != nil {
			return nil, apperrors.Persistence("defects.list_grouped", err)
		}
		pos, ok := index[categoryID]
		if !ok {
			pos = len(groups)
			index[categoryID] = pos
			groups = append(groups, models.DefectCategoryGroup{ID: categoryID, Name: categoryName})
		}
		groups[pos].Types = append(groups[pos].Types, models.DefectTypeItem{ID: typeID, Name: typeName})
	}
	return groups, rows.Err()
}

// KnownTypeIDs returns the ids of every defect type, active or not, for
// membership checks on submitted defect maps.
func (r *DefectRepository) KnownTypeIDs(ctx context.Context) (map[int]bool, error) {
	rows, err := r.DB.Query(ctx, `SELECT id FROM defect_types`)
	if err != nil {
		return nil, apperrors.Persistence("defects.known_type_ids", err)
	}
	defer rows.Close()

	known := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Persistence("defects.known_type_ids", err)
		}
		known[id] = true
	}
	return known, rows.Err()
}

// GetOrCreateType resolves a free-text defect name within a category,
// inserting it if absent. The (category_id, name) unique constraint keeps
// ad-hoc names from duplicating catalog rows even under concurrent saves.
func (r *DefectRepository) GetOrCreateType(ctx context.Context, categoryID int, name string) (*models.DefectType, error) {
	var t models.DefectType
	err := r.DB.QueryRow(ctx,
		`INSERT INTO defect_types(category_id, name, sort_order)
         VALUES($1, $2, 1000)
         ON CONFLICT (category_id, name) DO UPDATE SET updated_at = NOW()
         RETURNING id, category_id, name, description, active, sort_order, created_at, updated_at`,
		categoryID, name,
	).Scan(&t.ID, &t.CategoryID, &t.Name, &t.Description, &t.Active, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, apperrors.Persistence("defects.get_or_create_type", err)
	}
	return &t, nil
}
