package services

import (
	"context"
	"math"

	"qc-backend/internal/cache"
	"qc-backend/internal/models"
)

// ShiftTotalsGetter is the aggregation slice of the ledger store.
type ShiftTotalsGetter interface {
	GetShiftTotals(ctx context.Context, shiftID int) (*models.ShiftTotals, error)
}

// StatisticsService computes shift-level quality metrics. Always
// recomputed from the ledger (a short-TTL cache in front, nothing more);
// every rate is ratio-of-sums, the row-average variant from the legacy
// system is gone and avg_quality is just an alias of quality_rate.
type StatisticsService struct {
	Store ShiftTotalsGetter
}

func NewStatisticsService(store ShiftTotalsGetter) *StatisticsService {
	return &StatisticsService{Store: store}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

// GetShiftStatistics aggregates a shift's ledger into the statistics block
// shown on the shift page and in reports.
func (s *StatisticsService) GetShiftStatistics(ctx context.Context, shiftID int) (*models.ShiftStatistics, error) {
	if stats, ok := cache.GetShiftStatistics(ctx, shiftID); ok {
		return stats, nil
	}

	totals, err := s.Store.GetShiftTotals(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	qualityRate := rate(totals.TotalAccepted, totals.TotalCast)
	stats := &models.ShiftStatistics{
		TotalRecords:     totals.TotalRecords,
		TotalCast:        totals.TotalCast,
		TotalAccepted:    totals.TotalAccepted,
		TotalDefects:     totals.TotalDefects,
		QualityRate:      qualityRate,
		RejectRate:       rate(totals.TotalDefects, totals.TotalCast),
		AvgQuality:       qualityRate,
		DefectsBreakdown: totals.Breakdown,
	}

	cache.SetShiftStatistics(ctx, shiftID, stats)
	return stats, nil
}

// CalculateShiftMetrics is the shift-backed metrics path.
func (s *StatisticsService) CalculateShiftMetrics(ctx context.Context, shiftID int) (*models.QualityMetrics, error) {
	stats, err := s.GetShiftStatistics(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	return &models.QualityMetrics{
		TotalCast:      stats.TotalCast,
		TotalAccepted:  stats.TotalAccepted,
		TotalDefects:   stats.TotalDefects,
		RejectRate:     stats.RejectRate,
		QualityRate:    stats.QualityRate,
		AcceptanceRate: stats.QualityRate,
	}, nil
}

// CalculateMetrics is the what-if path used by the inspection form before a
// record is saved. Same output shape as the shift-backed path, no ledger
// access.
func CalculateMetrics(totalCast, totalAccepted int, defects map[int]int) *models.QualityMetrics {
	totalDefects := 0
	for _, count := range defects {
		if count > 0 {
			totalDefects += count
		}
	}

	qualityRate := rate(totalAccepted, totalCast)
	return &models.QualityMetrics{
		TotalCast:      totalCast,
		TotalAccepted:  totalAccepted,
		TotalDefects:   totalDefects,
		RejectRate:     rate(totalDefects, totalCast),
		QualityRate:    qualityRate,
		AcceptanceRate: qualityRate,
	}
}
