package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"qc-backend/internal/apperrors"
	"qc-backend/internal/cache"
	"qc-backend/internal/metrics"
	"qc-backend/internal/models"
	"qc-backend/internal/validation"
)

// ControlStore is the ledger's persistence surface. Satisfied by
// repositories.ControlRecordRepository.
type ControlStore interface {
	Save(ctx context.Context, rec *models.ControlRecord, defects map[int]int) error
	Get(ctx context.Context, recordID int) (*models.ControlRecord, error)
	CheckCardProcessed(ctx context.Context, cardNumber string) (bool, error)
	ListByShift(ctx context.Context, shiftID int) ([]*models.ControlRecord, error)
	GetRecordDefects(ctx context.Context, recordID int) ([]models.RecordDefect, error)
	GetShiftTotals(ctx context.Context, shiftID int) (*models.ShiftTotals, error)
	Delete(ctx context.Context, recordID int) (bool, error)
}

// CardSystem is the external production database boundary.
type CardSystem interface {
	SearchCard(ctx context.Context, cardNumber string) *models.CardMetadata
	MarkCardCompleted(ctx context.Context, cardNumber string) bool
}

// ActiveShiftGetter is the slice of the shift lifecycle the ledger needs to
// validate a save against.
type ActiveShiftGetter interface {
	GetActive(ctx context.Context, shiftID int) (*models.Shift, error)
}

// QualityAlerter receives high-reject-rate notifications. Optional.
type QualityAlerter interface {
	QualityAlert(shiftID int, cardNumber string, rejectRate float64)
}

// DefectCatalog is the slice of the taxonomy the save path needs: membership
// checks for submitted type ids and insert-or-reuse for free-text names.
// Satisfied by repositories.DefectRepository.
type DefectCatalog interface {
	KnownTypeIDs(ctx context.Context) (map[int]bool, error)
	GetOrCreateType(ctx context.Context, categoryID int, name string) (*models.DefectType, error)
}

type ControlService struct {
	Store   ControlStore
	Shifts  ActiveShiftGetter
	Cards   CardSystem
	Catalog DefectCatalog
	Alerter QualityAlerter
}

func NewControlService(store ControlStore, shifts ActiveShiftGetter, cards CardSystem, catalog DefectCatalog) *ControlService {
	return &ControlService{
		Store:   store,
		Shifts:  shifts,
		Cards:   cards,
		Catalog: catalog,
	}
}

// SetAlerter wires the monitoring alert sink
func (s *ControlService) SetAlerter(a QualityAlerter) {
	s.Alerter = a
}

// alertThreshold is the reject rate (percent) above which the monitoring
// dashboard gets a quality alert for the saved card.
const alertThreshold = 50.0

// SaveRecord validates and persists one inspection outcome, then performs
// the advisory status write-back to the external card system. The
// write-back runs after the local commit and its failure is logged, never
// returned.
func (s *ControlService) SaveRecord(ctx context.Context, req *models.SaveControlRecordRequest) (*models.ControlRecord, error) {
	// Free-text lines join the count checks under synthetic keys; they have
	// no type id until resolved against the catalog
	counts := make(map[int]int, len(req.Defects)+len(req.CustomDefects))
	for id, count := range req.Defects {
		counts[id] = count
	}
	for i, cd := range req.CustomDefects {
		counts[-(i + 1)] = cd.Count
	}

	errs, warnings := validation.ValidateControlData(req.TotalCast, req.TotalAccepted, counts)
	if !validation.ValidCardNumber(req.CardNumber) {
		errs = append(errs, "route card number must be 6 digits")
	}
	if req.ControllerName == "" {
		errs = append(errs, "controller name is required")
	}
	for _, cd := range req.CustomDefects {
		if strings.TrimSpace(cd.Name) == "" {
			errs = append(errs, "custom defect name is required")
		}
		if cd.CategoryID <= 0 {
			errs = append(errs, "custom defect category is required")
		}
	}
	if len(errs) > 0 {
		return nil, apperrors.NewValidation(errs...)
	}
	for _, w := range warnings {
		log.Printf("[Control] Warning for card %s: %s", req.CardNumber, w)
	}

	shift, err := s.Shifts.GetActive(ctx, req.ShiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperrors.NewValidation(fmt.Sprintf("shift %d is not active", req.ShiftID))
	}

	processed, err := s.Store.CheckCardProcessed(ctx, req.CardNumber)
	if err != nil {
		return nil, err
	}
	if processed {
		return nil, apperrors.NewValidation(fmt.Sprintf("route card %s has already been inspected", req.CardNumber))
	}

	defects, err := s.resolveDefects(ctx, req)
	if err != nil {
		return nil, err
	}

	rec := &models.ControlRecord{
		ShiftID:        req.ShiftID,
		CardNumber:     req.CardNumber,
		TotalCast:      req.TotalCast,
		TotalAccepted:  req.TotalAccepted,
		ControllerName: req.ControllerName,
		Notes:          req.Notes,
	}
	if err := s.Store.Save(ctx, rec, defects); err != nil {
		return nil, err
	}

	metrics.ControlRecordsSaved.Inc()
	cache.InvalidateShiftStatistics(ctx, req.ShiftID)
	log.Printf("[Control] Saved record %d for card %s", rec.ID, rec.CardNumber)

	// Advisory write-back, after the local commit
	if !s.Cards.MarkCardCompleted(ctx, req.CardNumber) {
		metrics.ExternalWritebackFailures.Inc()
		log.Printf("[Control] External status write-back for card %s did not complete", req.CardNumber)
	}

	totalDefects := 0
	for _, count := range defects {
		totalDefects += count
	}
	rejectRate := float64(totalDefects) / float64(req.TotalCast) * 100
	if s.Alerter != nil && rejectRate > alertThreshold {
		s.Alerter.QualityAlert(req.ShiftID, req.CardNumber, rejectRate)
	}

	return rec, nil
}

// resolveDefects maps the request's defect lines to catalog type ids.
// Submitted ids absent from the catalog are dropped and logged rather than
// rejected, so a stale form cannot block a save. Free-text lines are
// inserted into the catalog, or reuse an existing row with the same name.
func (s *ControlService) resolveDefects(ctx context.Context, req *models.SaveControlRecordRequest) (map[int]int, error) {
	known, err := s.Catalog.KnownTypeIDs(ctx)
	if err != nil {
		return nil, err
	}

	defects := make(map[int]int, len(req.Defects))
	for id, count := range req.Defects {
		if count <= 0 {
			continue
		}
		if !known[id] {
			log.Printf("[Control] Dropping unknown defect type %d for card %s", id, req.CardNumber)
			continue
		}
		defects[id] = count
	}

	for _, cd := range req.CustomDefects {
		if cd.Count <= 0 {
			continue
		}
		t, err := s.Catalog.GetOrCreateType(ctx, cd.CategoryID, strings.TrimSpace(cd.Name))
		if err != nil {
			return nil, err
		}
		defects[t.ID] += cd.Count
	}
	return defects, nil
}

// CheckCardProcessed is the duplicate-entry guard behind the card search
// flow: true when any record in the ledger references the card.
func (s *ControlService) CheckCardProcessed(ctx context.Context, cardNumber string) (bool, error) {
	return s.Store.CheckCardProcessed(ctx, cardNumber)
}

// GetRecordsByShift returns a shift's records, most recent first.
func (s *ControlService) GetRecordsByShift(ctx context.Context, shiftID int) ([]*models.ControlRecord, error) {
	return s.Store.ListByShift(ctx, shiftID)
}

// GetRecordDefects returns a record's defect lines with names.
func (s *ControlService) GetRecordDefects(ctx context.Context, recordID int) ([]models.RecordDefect, error) {
	return s.Store.GetRecordDefects(ctx, recordID)
}

// DeleteRecord removes a record and, via the cascade, its defect entries.
// Admin correction path only.
func (s *ControlService) DeleteRecord(ctx context.Context, recordID int) (bool, error) {
	rec, err := s.Store.Get(ctx, recordID)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}

	ok, err := s.Store.Delete(ctx, recordID)
	if err != nil {
		return false, err
	}
	if ok {
		cache.InvalidateShiftStatistics(ctx, rec.ShiftID)
		log.Printf("[Control] Deleted record %d (card %s)", recordID, rec.CardNumber)
	}
	return ok, nil
}

// SearchCard validates the card number format, asks the external system for
// metadata and annotates whether the card already went through inspection.
type CardSearchResult struct {
	Card      *models.CardMetadata `json:"card"`
	Found     bool                 `json:"found"`
	Processed bool                 `json:"processed"`
}

func (s *ControlService) SearchCard(ctx context.Context, cardNumber string) (*CardSearchResult, error) {
	if !validation.ValidCardNumber(cardNumber) {
		return nil, apperrors.NewValidation("route card number must be 6 digits")
	}

	processed, err := s.Store.CheckCardProcessed(ctx, cardNumber)
	if err != nil {
		return nil, err
	}

	card := s.Cards.SearchCard(ctx, cardNumber)
	return &CardSearchResult{
		Card:      card,
		Found:     card != nil,
		Processed: processed,
	}, nil
}
