package history

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/gw/kalshi-tradestats/internal/stats"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st, path
}

func insertAt(t *testing.T, st *Store, at time.Time, pnl int) Snapshot {
	t.Helper()
	snap, err := FromSummary(stats.Summary{TotalTrades: 3, WonTrades: 2, LostTrades: 1, TotalPnlCents: pnl, WinRate: 66.7}, at)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Insert(context.Background(), &snap); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	return snap
}

func TestFromSummary(t *testing.T) {
	at := time.Date(2026, 3, 15, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))
	snap, err := FromSummary(stats.Summary{TotalPnlCents: -1234, SharpeRatio: 1.25}, at)
	if err != nil {
		t.Fatal(err)
	}
	if snap.ID == "" {
		t.Fatal("expected generated id")
	}
	if snap.TakenAt.Location() != time.UTC || snap.TakenAt.Hour() != 17 {
		t.Fatalf("expected UTC timestamp, got %v", snap.TakenAt)
	}
	if snap.TotalPnl.StringFixed(2) != "-12.34" {
		t.Fatalf("expected -12.34 dollars, got %s", snap.TotalPnl.StringFixed(2))
	}

	var decoded stats.Summary
	if err := json.Unmarshal(snap.Payload, &decoded); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if decoded.SharpeRatio != 1.25 {
		t.Fatalf("payload lost sharpe ratio: %v", decoded.SharpeRatio)
	}
}

func TestInsertAndRecent(t *testing.T) {
	st, _ := openTestStore(t)
	base := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

	insertAt(t, st, base, 100)
	insertAt(t, st, base.Add(2*time.Hour), 250)
	newest := insertAt(t, st, base.Add(4*time.Hour), -75)

	got, err := st.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(got))
	}
	if got[0].ID != newest.ID || got[1].TotalPnlCents != 250 {
		t.Fatalf("expected newest first, got %s then %d", got[0].ID, got[1].TotalPnlCents)
	}
	if !got[0].TakenAt.Equal(newest.TakenAt) {
		t.Fatalf("taken_at round trip: %v != %v", got[0].TakenAt, newest.TakenAt)
	}
	if got[0].TotalPnl.StringFixed(2) != "-0.75" {
		t.Fatalf("expected -0.75 dollars, got %s", got[0].TotalPnl)
	}
	if len(got[0].Payload) == 0 {
		t.Fatal("expected payload")
	}
}

func TestRecentEmpty(t *testing.T) {
	st, _ := openTestStore(t)
	got, err := st.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
}

func TestDailyKeepsLatestPerDay(t *testing.T) {
	st, _ := openTestStore(t)
	day1 := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

	insertAt(t, st, day1, 10)
	insertAt(t, st, day1.Add(10*time.Hour), 20)
	insertAt(t, st, day2, 30)
	last := insertAt(t, st, day2.Add(3*time.Hour), 40)

	rows, err := st.Daily(context.Background())
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 days, got %d", len(rows))
	}
	if rows[0].Date != "2026-03-15" || rows[0].SnapshotID != last.ID || rows[0].TotalPnlCents != 40 {
		t.Fatalf("unexpected newest day: %+v", rows[0])
	}
	if rows[1].Date != "2026-03-14" || rows[1].TotalPnlCents != 20 {
		t.Fatalf("unexpected oldest day: %+v", rows[1])
	}
	if rows[1].TotalPnl.StringFixed(2) != "0.20" {
		t.Fatalf("expected 0.20 dollars, got %s", rows[1].TotalPnl)
	}
}

func TestReopenKeepsData(t *testing.T) {
	st, path := openTestStore(t)
	insertAt(t, st, time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC), 5)
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 snapshot after reopen, got %d", len(got))
	}
}
