package models

// ShiftStatistics is the aggregate view of a shift, always recomputed from
// the ledger. Rates are ratio-of-sums, rounded to 2 decimal places.
// avg_quality is a legacy alias of quality_rate.
type ShiftStatistics struct {
	TotalRecords     int              `json:"total_records"`
	TotalCast        int              `json:"total_cast"`
	TotalAccepted    int              `json:"total_accepted"`
	TotalDefects     int              `json:"total_defects"`
	QualityRate      float64          `json:"quality_rate"`
	RejectRate       float64          `json:"reject_rate"`
	AvgQuality       float64          `json:"avg_quality"`
	DefectsBreakdown []DefectBreakdown `json:"defects_breakdown"`
}

// DefectBreakdown is one grouped-and-summed defect line, sorted descending
// by count.
type DefectBreakdown struct {
	Category   string `json:"category"`
	DefectName string `json:"defect_name"`
	Count      int    `json:"count"`
}

// ShiftTotals is the raw aggregate over a shift's records before any rate
// computation.
type ShiftTotals struct {
	TotalRecords  int
	TotalCast     int
	TotalAccepted int
	TotalDefects  int
	Breakdown     []DefectBreakdown
}

// QualityMetrics is the shape shared by the shift-backed and what-if
// calculation paths. acceptance_rate is a deprecated duplicate of
// quality_rate kept for old clients.
type QualityMetrics struct {
	TotalCast      int     `json:"total_cast"`
	TotalAccepted  int     `json:"total_accepted"`
	TotalDefects   int     `json:"total_defects"`
	RejectRate     float64 `json:"reject_rate"`
	QualityRate    float64 `json:"quality_rate"`
	AcceptanceRate float64 `json:"acceptance_rate"`
}

// CardMetadata is what the external production database knows about a route
// card.
type CardMetadata struct {
	CardNumber string `json:"card_number"`
	PartName   string `json:"part_name,omitempty"`
	PartNumber string `json:"part_number,omitempty"`
	Quantity   int    `json:"quantity,omitempty"`
	Status     string `json:"status,omitempty"`
	Source     string `json:"source,omitempty"` // which external DB answered
}
