package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Habibbiswas460/Angel-x-sub003/market"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) Append(t TradeRecord) error {
	won := 0
	if t.Won {
		won = 1
	}
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, entry_time, exit_time, won, pnl, bias_strength, oi_conviction, greeks_regime, volatility, exit_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.EntryTime, t.ExitTime, won, t.PnL,
		t.BiasStrength, int(t.OIConviction), int(t.GreeksRegime), int(t.Volatility), int(t.ExitReason),
	)
	return err
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	row := j.db.QueryRow(`
		SELECT trade_id, entry_time, exit_time, won, pnl, bias_strength, oi_conviction, greeks_regime, volatility, exit_reason
		FROM trades
		WHERE trade_id = ?`, tradeID)

	rec, err := scanTrade(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListClosedBetween returns trades whose exit_time is within [start, end],
// ordered by exit time. The end is inclusive so a trade closing exactly at
// the learning-cycle timestamp lands in that cycle's window, not the next.
func (j *SQLite) ListClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, entry_time, exit_time, won, pnl, bias_strength, oi_conviction, greeks_regime, volatility, exit_reason
		FROM trades
		WHERE exit_time >= ? AND exit_time <= ?
		ORDER BY exit_time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (TradeRecord, error) {
	var rec TradeRecord
	var won, oi, greeks, vol, exit int

	err := s.Scan(
		&rec.TradeID,
		&rec.EntryTime,
		&rec.ExitTime,
		&won,
		&rec.PnL,
		&rec.BiasStrength,
		&oi,
		&greeks,
		&vol,
		&exit,
	)
	if err != nil {
		return TradeRecord{}, err
	}

	rec.Won = won != 0
	rec.OIConviction = market.OIConviction(oi)
	rec.GreeksRegime = market.GreeksRegime(greeks)
	rec.Volatility = market.VolatilityLevel(vol)
	rec.ExitReason = market.ExitReason(exit)
	return rec, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
