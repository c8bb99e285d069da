package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/gw/kalshi-tradestats/internal/stats"
)

const timeLayout = "2006-01-02T15:04:05.000Z"

// Snapshot is one recorded stats computation. Headline figures are broken out
// into columns; the full summary lives in Payload.
type Snapshot struct {
	ID               string          `json:"id"`
	TakenAt          time.Time       `json:"takenAt"`
	TotalTrades      int             `json:"totalTrades"`
	WonTrades        int             `json:"wonTrades"`
	LostTrades       int             `json:"lostTrades"`
	PendingTrades    int             `json:"pendingTrades"`
	WinRate          float64         `json:"winRate"`
	TotalPnlCents    int             `json:"totalPnlCents"`
	TotalPnl         decimal.Decimal `json:"totalPnlUsd"`
	ProfitFactor     float64         `json:"profitFactor"`
	SharpeRatio      float64         `json:"sharpeRatio"`
	SortinoRatio     float64         `json:"sortinoRatio"`
	CalmarRatio      float64         `json:"calmarRatio"`
	MaxDrawdownCents int             `json:"maxDrawdownCents"`
	Payload          json.RawMessage `json:"payload,omitempty"`
}

// DailyRow is the latest snapshot of one UTC day.
type DailyRow struct {
	Date             string          `json:"date"`
	SnapshotID       string          `json:"snapshotId"`
	TakenAt          time.Time       `json:"takenAt"`
	TotalTrades      int             `json:"totalTrades"`
	WinRate          float64         `json:"winRate"`
	TotalPnlCents    int             `json:"totalPnlCents"`
	TotalPnl         decimal.Decimal `json:"totalPnlUsd"`
	MaxDrawdownCents int             `json:"maxDrawdownCents"`
	SharpeRatio      float64         `json:"sharpeRatio"`
}

// Dollars converts integer cents to a two-place dollar amount.
func Dollars(cents int) decimal.Decimal {
	return decimal.New(int64(cents), -2)
}

// FromSummary builds a snapshot row with a fresh ID.
func FromSummary(s stats.Summary, takenAt time.Time) (Snapshot, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encoding summary: %w", err)
	}
	return Snapshot{
		ID:               uuid.NewString(),
		TakenAt:          takenAt.UTC(),
		TotalTrades:      s.TotalTrades,
		WonTrades:        s.WonTrades,
		LostTrades:       s.LostTrades,
		PendingTrades:    s.PendingTrades,
		WinRate:          s.WinRate,
		TotalPnlCents:    s.TotalPnlCents,
		TotalPnl:         Dollars(s.TotalPnlCents),
		ProfitFactor:     s.ProfitFactor,
		SharpeRatio:      s.SharpeRatio,
		SortinoRatio:     s.SortinoRatio,
		CalmarRatio:      s.CalmarRatio,
		MaxDrawdownCents: s.MaxDrawdownCents,
		Payload:          payload,
	}, nil
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	// WAL mode so the server can read while the scheduler writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("schema migration: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Insert(ctx context.Context, snap *Snapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stats_snapshots (snapshot_id, taken_at, total_trades, won_trades,
			lost_trades, pending_trades, win_rate, total_pnl_cents, total_pnl_usd,
			profit_factor, sharpe_ratio, sortino_ratio, calmar_ratio,
			max_drawdown_cents, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.TakenAt.UTC().Format(timeLayout), snap.TotalTrades, snap.WonTrades,
		snap.LostTrades, snap.PendingTrades, snap.WinRate, snap.TotalPnlCents,
		Dollars(snap.TotalPnlCents).StringFixed(2),
		snap.ProfitFactor, snap.SharpeRatio, snap.SortinoRatio, snap.CalmarRatio,
		snap.MaxDrawdownCents, string(snap.Payload),
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot %s: %w", snap.ID, err)
	}
	return nil
}

// Recent returns up to limit snapshots, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT snapshot_id, taken_at, total_trades, won_trades, lost_trades,
			pending_trades, win_rate, total_pnl_cents, total_pnl_usd, profit_factor,
			sharpe_ratio, sortino_ratio, calmar_ratio, max_drawdown_cents, payload
		FROM stats_snapshots ORDER BY taken_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []Snapshot{}
	for rows.Next() {
		var (
			snap    Snapshot
			takenAt string
			payload string
		)
		if err := rows.Scan(&snap.ID, &takenAt, &snap.TotalTrades, &snap.WonTrades,
			&snap.LostTrades, &snap.PendingTrades, &snap.WinRate, &snap.TotalPnlCents,
			&snap.TotalPnl, &snap.ProfitFactor, &snap.SharpeRatio, &snap.SortinoRatio,
			&snap.CalmarRatio, &snap.MaxDrawdownCents, &payload); err != nil {
			return nil, err
		}
		if snap.TakenAt, err = time.Parse(timeLayout, takenAt); err != nil {
			return nil, fmt.Errorf("snapshot %s: bad taken_at %q: %w", snap.ID, takenAt, err)
		}
		snap.Payload = json.RawMessage(payload)
		results = append(results, snap)
	}
	return results, rows.Err()
}

// Daily returns the latest snapshot of each UTC day, newest day first.
func (s *Store) Daily(ctx context.Context) ([]DailyRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, snapshot_id, taken_at, total_trades, win_rate, total_pnl_cents,
			total_pnl_usd, max_drawdown_cents, sharpe_ratio
		FROM v_daily_snapshots ORDER BY date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []DailyRow{}
	for rows.Next() {
		var (
			d       DailyRow
			takenAt string
		)
		if err := rows.Scan(&d.Date, &d.SnapshotID, &takenAt, &d.TotalTrades, &d.WinRate,
			&d.TotalPnlCents, &d.TotalPnl, &d.MaxDrawdownCents, &d.SharpeRatio); err != nil {
			return nil, err
		}
		if d.TakenAt, err = time.Parse(timeLayout, takenAt); err != nil {
			return nil, fmt.Errorf("snapshot %s: bad taken_at %q: %w", d.SnapshotID, takenAt, err)
		}
		results = append(results, d)
	}
	return results, rows.Err()
}
