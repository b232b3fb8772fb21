// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	entry_time DATETIME NOT NULL,
	exit_time DATETIME NOT NULL,
	won INTEGER NOT NULL,
	pnl REAL NOT NULL,
	bias_strength REAL NOT NULL,
	oi_conviction INTEGER NOT NULL,
	greeks_regime INTEGER NOT NULL,
	volatility INTEGER NOT NULL,
	exit_reason INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_exit_time ON trades(exit_time);
`
