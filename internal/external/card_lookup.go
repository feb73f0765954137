// Package external talks to the production databases that own route cards.
// Both are read-mostly sqlite files maintained by other systems; this side
// never owns their schema and must keep working when they are absent.
package external

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"

	"qc-backend/internal/models"

	_ "modernc.org/sqlite"
)

// CardLookup searches route cards across the foundry database and the
// route-cards database, in that order. All failures degrade: a read miss or
// an unreachable file is "not found", a write-back failure is a warning.
type CardLookup struct {
	foundryPath    string
	routeCardsPath string
	enabled        bool
}

func NewCardLookup(foundryPath, routeCardsPath string, enabled bool) *CardLookup {
	return &CardLookup{
		foundryPath:    foundryPath,
		routeCardsPath: routeCardsPath,
		enabled:        enabled,
	}
}

func (l *CardLookup) open(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return sql.Open("sqlite", path)
}

// SearchCard returns the card's metadata or nil when no external store
// knows it. Never returns an error to the caller: the external systems are
// a best-effort oracle, not a dependency.
func (l *CardLookup) SearchCard(ctx context.Context, cardNumber string) *models.CardMetadata {
	if !l.enabled {
		return nil
	}

	if meta := l.searchFoundry(ctx, cardNumber); meta != nil {
		return meta
	}
	return l.searchRouteCards(ctx, cardNumber)
}

func (l *CardLookup) searchFoundry(ctx context.Context, cardNumber string) *models.CardMetadata {
	db, err := l.open(l.foundryPath)
	if err != nil {
		return nil
	}
	defer db.Close()

	var meta models.CardMetadata
	var partName, partNumber, status sql.NullString
	var quantity sql.NullInt64
	err = db.QueryRowContext(ctx,
		`SELECT card_number, part_name, part_number, quantity, status
         FROM route_cards WHERE card_number = ?`, cardNumber,
	).Scan(&meta.CardNumber, &partName, &partNumber, &quantity, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		log.Printf("[External] foundry DB search failed: %v", err)
		return nil
	}

	meta.PartName = partName.String
	meta.PartNumber = partNumber.String
	meta.Quantity = int(quantity.Int64)
	meta.Status = status.String
	meta.Source = "foundry"
	return &meta
}

func (l *CardLookup) searchRouteCards(ctx context.Context, cardNumber string) *models.CardMetadata {
	db, err := l.open(l.routeCardsPath)
	if err != nil {
		return nil
	}
	defer db.Close()

	var meta models.CardMetadata
	var partName, status sql.NullString
	var quantity sql.NullInt64
	err = db.QueryRowContext(ctx,
		`SELECT number, part_name, quantity, status
         FROM route_cards WHERE number = ?`, cardNumber,
	).Scan(&meta.CardNumber, &partName, &quantity, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		log.Printf("[External] route cards DB search failed: %v", err)
		return nil
	}

	meta.PartName = partName.String
	meta.Quantity = int(quantity.Int64)
	meta.Status = status.String
	meta.Source = "route_cards"
	return &meta
}

// MarkCardCompleted writes the completed status back to whichever external
// store holds the card. Advisory only: the local ledger entry is already
// committed when this runs, and a failure here must never surface to the
// save path.
func (l *CardLookup) MarkCardCompleted(ctx context.Context, cardNumber string) bool {
	if !l.enabled {
		return false
	}

	if l.markIn(ctx, l.foundryPath, `UPDATE route_cards SET status = 'completed' WHERE card_number = ?`, cardNumber) {
		return true
	}
	return l.markIn(ctx, l.routeCardsPath, `UPDATE route_cards SET status = 'completed' WHERE number = ?`, cardNumber)
}

func (l *CardLookup) markIn(ctx context.Context, path, query, cardNumber string) bool {
	db, err := l.open(path)
	if err != nil {
		return false
	}
	defer db.Close()

	res, err := db.ExecContext(ctx, query, cardNumber)
	if err != nil {
		log.Printf("[External] status write-back failed for card %s: %v", cardNumber, err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}
