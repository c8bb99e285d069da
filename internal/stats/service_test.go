package stats

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newService(path string) *Service {
	return &Service{
		LogPath: path,
		Logger:  zap.NewNop(),
		Now:     func() time.Time { return fixedNow },
	}
}

func TestServiceStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.jsonl")
	content := strings.Join([]string{
		trade("2026-03-15T09:00:00Z", 40, "won"),
		"not json",
		trade("2026-03-15T10:00:00Z", 60, "lost"),
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := newService(path).Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.TotalTrades != 2 || s.TotalPnlCents != 0 || s.TodayTrades != 2 {
		t.Fatalf("unexpected summary: total=%d pnl=%d today=%d", s.TotalTrades, s.TotalPnlCents, s.TodayTrades)
	}
	if s.LastUpdated != "2026-03-15T18:00:00.000Z" {
		t.Fatalf("expected injected clock, got %s", s.LastUpdated)
	}
}

func TestServiceDedupe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.jsonl")
	content := strings.Join([]string{
		`{"timestamp":"2026-03-15T09:00:00Z","type":"trade","order_id":"a","price_cents":40,"order_status":"executed"}`,
		`{"timestamp":"2026-03-15T09:00:00Z","type":"trade","order_id":"a","price_cents":40,"order_status":"executed","result_status":"won"}`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	svc := newService(path)
	raw, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if raw.TotalTrades != 2 || raw.PendingTrades != 1 {
		t.Fatalf("expected both lines counted without dedupe, got %d/%d", raw.TotalTrades, raw.PendingTrades)
	}

	svc.Dedupe = true
	deduped, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if deduped.TotalTrades != 1 || deduped.WonTrades != 1 || deduped.PendingTrades != 0 {
		t.Fatalf("expected the settled version only, got %+v", deduped)
	}
}

func TestServiceMissingLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.jsonl")

	_, err := newService(path).Stats(context.Background())
	if err == nil {
		t.Fatal("expected error for missing log")
	}

	status, body := ErrorBody(err)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if body.Error != "Trade log not found" || body.Path != path {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestErrorBodyInternal(t *testing.T) {
	status, body := ErrorBody(errors.New("disk on fire"))
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if body.Error != "Failed to compute trading stats" || body.Details != "disk on fire" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.Path != "" {
		t.Fatal("internal errors must not carry a path")
	}
}

func TestServiceUnreadableLog(t *testing.T) {
	dir := t.TempDir()

	_, err := newService(dir).Stats(context.Background())
	if err == nil {
		t.Fatal("expected error reading a directory")
	}
	if status, _ := ErrorBody(err); status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
}
