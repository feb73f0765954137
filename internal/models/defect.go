package models

import "time"

type DefectCategory struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

type DefectType struct {
	ID          int       `json:"id"`
	CategoryID  int       `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefectCategoryGroup is a category with its active types, in sort order,
// as served to the inspection form.
type DefectCategoryGroup struct {
	ID    int              `json:"id"`
	Name  string           `json:"name"`
	Types []DefectTypeItem `json:"types"`
}

type DefectTypeItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
