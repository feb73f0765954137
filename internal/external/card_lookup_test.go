package external

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeFoundryDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "foundry.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE route_cards (
		card_number TEXT PRIMARY KEY,
		part_name TEXT,
		part_number TEXT,
		quantity INTEGER,
		status TEXT
	)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO route_cards VALUES ('482910', 'Bracket', 'BR-17', 120, 'in_work')`)
	require.NoError(t, err)
	return path
}

func makeRouteCardsDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "route_cards.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE route_cards (
		number TEXT PRIMARY KEY,
		part_name TEXT,
		quantity INTEGER,
		status TEXT
	)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO route_cards VALUES ('777001', 'Housing', 40, 'in_work')`)
	require.NoError(t, err)
	return path
}

func TestSearchCardFoundryFirst(t *testing.T) {
	lookup := NewCardLookup(makeFoundryDB(t), makeRouteCardsDB(t), true)

	meta := lookup.SearchCard(context.Background(), "482910")
	require.NotNil(t, meta)
	assert.Equal(t, "Bracket", meta.PartName)
	assert.Equal(t, "BR-17", meta.PartNumber)
	assert.Equal(t, 120, meta.Quantity)
	assert.Equal(t, "foundry", meta.Source)
}

func TestSearchCardFallsBackToRouteCards(t *testing.T) {
	lookup := NewCardLookup(makeFoundryDB(t), makeRouteCardsDB(t), true)

	meta := lookup.SearchCard(context.Background(), "777001")
	require.NotNil(t, meta)
	assert.Equal(t, "Housing", meta.PartName)
	assert.Equal(t, "route_cards", meta.Source)
}

func TestSearchCardUnknown(t *testing.T) {
	lookup := NewCardLookup(makeFoundryDB(t), makeRouteCardsDB(t), true)
	assert.Nil(t, lookup.SearchCard(context.Background(), "000000"))
}

func TestSearchCardMissingFiles(t *testing.T) {
	lookup := NewCardLookup("/nonexistent/foundry.db", "/nonexistent/cards.db", true)
	assert.Nil(t, lookup.SearchCard(context.Background(), "482910"))
}

func TestSearchCardDisabled(t *testing.T) {
	lookup := NewCardLookup(makeFoundryDB(t), makeRouteCardsDB(t), false)
	assert.Nil(t, lookup.SearchCard(context.Background(), "482910"))
}

func TestMarkCardCompleted(t *testing.T) {
	foundryPath := makeFoundryDB(t)
	lookup := NewCardLookup(foundryPath, makeRouteCardsDB(t), true)

	ok := lookup.MarkCardCompleted(context.Background(), "482910")
	assert.True(t, ok)

	db, err := sql.Open("sqlite", foundryPath)
	require.NoError(t, err)
	defer db.Close()

	var status string
	require.NoError(t, db.QueryRow(`SELECT status FROM route_cards WHERE card_number='482910'`).Scan(&status))
	assert.Equal(t, "completed", status)
}

func TestMarkCardCompletedSecondStore(t *testing.T) {
	routePath := makeRouteCardsDB(t)
	lookup := NewCardLookup(makeFoundryDB(t), routePath, true)

	ok := lookup.MarkCardCompleted(context.Background(), "777001")
	assert.True(t, ok)

	db, err := sql.Open("sqlite", routePath)
	require.NoError(t, err)
	defer db.Close()

	var status string
	require.NoError(t, db.QueryRow(`SELECT status FROM route_cards WHERE number='777001'`).Scan(&status))
	assert.Equal(t, "completed", status)
}

func TestMarkCardCompletedUnknownCard(t *testing.T) {
	lookup := NewCardLookup(makeFoundryDB(t), makeRouteCardsDB(t), true)
	assert.False(t, lookup.MarkCardCompleted(context.Background(), "999999"))
}

func TestMarkCardCompletedDisabled(t *testing.T) {
	lookup := NewCardLookup(makeFoundryDB(t), makeRouteCardsDB(t), false)
	assert.False(t, lookup.MarkCardCompleted(context.Background(), "482910"))
}
