package history

// taken_at is stored as fixed-width UTC text so lexical order is chronological.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS stats_snapshots (
	snapshot_id        TEXT PRIMARY KEY,
	taken_at           TEXT NOT NULL,
	total_trades       INTEGER NOT NULL DEFAULT 0,
	won_trades         INTEGER NOT NULL DEFAULT 0,
	lost_trades        INTEGER NOT NULL DEFAULT 0,
	pending_trades     INTEGER NOT NULL DEFAULT 0,
	win_rate           REAL NOT NULL DEFAULT 0,
	total_pnl_cents    INTEGER NOT NULL DEFAULT 0,
	total_pnl_usd      TEXT NOT NULL DEFAULT '0.00',
	profit_factor      REAL NOT NULL DEFAULT 0,
	sharpe_ratio       REAL NOT NULL DEFAULT 0,
	sortino_ratio      REAL NOT NULL DEFAULT 0,
	calmar_ratio       REAL NOT NULL DEFAULT 0,
	max_drawdown_cents INTEGER NOT NULL DEFAULT 0,
	payload            TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_taken ON stats_snapshots(taken_at);

CREATE VIEW IF NOT EXISTS v_daily_snapshots AS
SELECT
	substr(s.taken_at, 1, 10) AS date,
	s.snapshot_id,
	s.taken_at,
	s.total_trades,
	s.win_rate,
	s.total_pnl_cents,
	s.total_pnl_usd,
	s.max_drawdown_cents,
	s.sharpe_ratio
FROM stats_snapshots s
WHERE s.taken_at = (
	SELECT MAX(t.taken_at) FROM stats_snapshots t
	WHERE substr(t.taken_at, 1, 10) = substr(s.taken_at, 1, 10)
);
`
