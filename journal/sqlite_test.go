package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"

	"github.com/Habibbiswas460/Angel-x-sub003/market"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	assert.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name='trades'`)
	assert.NoError(t, err)
	defer rows.Close()

	found := false
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found = name == "trades"
	}
	assert.NoError(t, rows.Err())
	assert.True(t, found)
}

func TestSQLiteAppendAndGet(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	entry := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	exit := time.Date(2026, 3, 2, 11, 15, 0, 0, time.UTC)

	rec := TradeRecord{
		TradeID:      "T1",
		EntryTime:    entry,
		ExitTime:     exit,
		Won:          true,
		PnL:          412.50,
		BiasStrength: 0.62,
		OIConviction: market.OIHighConviction,
		GreeksRegime: market.GreeksFavorable,
		Volatility:   market.VolHigh,
		ExitReason:   market.ExitTarget,
	}
	assert.NoError(t, j.Append(rec))

	got, err := j.GetTrade("T1")
	assert.NoError(t, err)
	assert.True(t, got.Won)
	assert.InDelta(t, 412.50, got.PnL, 1e-9)
	assert.Equal(t, market.OIHighConviction, got.OIConviction)
	assert.Equal(t, market.GreeksFavorable, got.GreeksRegime)
	assert.Equal(t, market.VolHigh, got.Volatility)
	assert.Equal(t, market.ExitTarget, got.ExitReason)
	assert.True(t, got.ExitTime.Equal(exit))
}

func TestSQLiteGetTradeMissing(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	_, err := j.GetTrade("nope")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteListClosedBetween(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for i, h := range []int{10, 12, 14} {
		rec := TradeRecord{
			TradeID:   string(rune('A' + i)),
			EntryTime: day.Add(time.Duration(h-1) * time.Hour),
			ExitTime:  day.Add(time.Duration(h) * time.Hour),
			Won:       i%2 == 0,
			PnL:       float64(i) * 10,
		}
		assert.NoError(t, j.Append(rec))
	}

	got, err := j.ListClosedBetween(day.Add(11*time.Hour), day.Add(15*time.Hour))
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "B", got[0].TradeID)
	assert.Equal(t, "C", got[1].TradeID)

	// The end of the window is inclusive: a trade closing exactly at the
	// window end belongs to it.
	got, err = j.ListClosedBetween(day.Add(11*time.Hour), day.Add(14*time.Hour))
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "C", got[1].TradeID)
}

func TestMemoryJournalWindow(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, m.Append(TradeRecord{TradeID: "late", ExitTime: day.Add(14 * time.Hour)}))
	assert.NoError(t, m.Append(TradeRecord{TradeID: "early", ExitTime: day.Add(10 * time.Hour)}))

	got, err := m.ListClosedBetween(day, day.Add(24*time.Hour))
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "early", got[0].TradeID)
	assert.Equal(t, 2, m.Len())

	got, err = m.ListClosedBetween(day, day.Add(14*time.Hour))
	assert.NoError(t, err)
	assert.Len(t, got, 2, "window end is inclusive")
}
