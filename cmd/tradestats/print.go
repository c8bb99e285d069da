package main

import (
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gw/kalshi-tradestats/internal/config"
	"github.com/gw/kalshi-tradestats/internal/history"
	"github.com/gw/kalshi-tradestats/internal/stats"
)

type cli struct {
	cfg config.Config
	log *zap.Logger
	out io.Writer
}

const rule = "--------------------------------------------------------------"

func (a *cli) printSummary(s stats.Summary, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml":
		return writeYAML(a.out, s)
	case "table", "":
		a.printTable(s)
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}

func (a *cli) printTable(s stats.Summary) {
	w := a.out
	row := func(label, value string) { fmt.Fprintf(w, "%-24s %s\n", label, value) }

	fmt.Fprintln(w, "Trading stats as of", s.LastUpdated)
	fmt.Fprintln(w, rule)
	row("Trades", fmt.Sprintf("%d (%d won, %d lost, %d pending)", s.TotalTrades, s.WonTrades, s.LostTrades, s.PendingTrades))
	row("Win rate", fmt.Sprintf("%.1f%%", s.WinRate))
	row("Net PnL", cents(s.TotalPnlCents))
	row("Gross profit / loss", cents(s.GrossProfitCents)+" / "+cents(s.GrossLossCents))
	row("Profit factor", ratio(s.ProfitFactor, s.ProfitFactorUnbounded))
	row("Avg return / trade", cents(s.AvgReturnCents))
	fmt.Fprintln(w, rule)
	row("Sharpe", fmt.Sprintf("%.2f", s.SharpeRatio))
	row("Sortino", ratio(s.SortinoRatio, s.SortinoUnbounded))
	row("Calmar", fmt.Sprintf("%.2f", s.CalmarRatio))
	row("Max drawdown", fmt.Sprintf("%s (%.2f%%)", cents(s.MaxDrawdownCents), s.MaxDrawdownPercent))
	row("Streaks (win / loss)", fmt.Sprintf("%d / %d", s.LongestWinStreak, s.LongestLossStreak))
	row("Current streak", fmt.Sprintf("%d %s", s.CurrentStreak, s.CurrentStreakType))
	row("Avg duration", fmt.Sprintf("%.1fh", s.AvgTradeDurationHours))
	fmt.Fprintln(w, rule)
	if s.LatencyTradeCount > 0 {
		row("Latency avg / p95", fmt.Sprintf("%.0fms / %.0fms", *s.AvgLatencyMs, *s.P95LatencyMs))
		row("Latency min / max", fmt.Sprintf("%.0fms / %.0fms (n=%d)", *s.MinLatencyMs, *s.MaxLatencyMs, s.LatencyTradeCount))
	} else {
		row("Latency", "n/a")
	}
	row("Today", fmt.Sprintf("%d trades, %.1f%% win, %s", s.TodayTrades, s.TodayWinRate, cents(s.TodayPnlCents)))

	if len(s.RecentTrades) == 0 {
		return
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-25s %-30s %4s %5s %4s %8s\n", "Time", "Ticker", "Side", "Price", "Qty", "Result")
	for _, t := range s.RecentTrades {
		result := t.ResultStatus
		if !t.Settled() {
			result = "pending"
		}
		fmt.Fprintf(w, "%-25s %-30s %4s %5d %4d %8s\n", t.Timestamp, t.Ticker, t.Side, t.Price(), t.Contracts(), result)
	}
}

func (a *cli) printHistory(snaps []history.Snapshot) {
	if len(snaps) == 0 {
		fmt.Fprintln(a.out, "No snapshots. Run 'tradestats snapshot' first.")
		return
	}
	fmt.Fprintf(a.out, "%-20s %6s %6s %10s %7s %7s %10s\n", "Taken", "Trades", "Win%", "Net PnL", "Sharpe", "PF", "MaxDD")
	fmt.Fprintln(a.out, rule+"--------")
	for _, s := range snaps {
		fmt.Fprintf(a.out, "%-20s %6d %6.1f %10s %7.2f %7.2f %10s\n",
			s.TakenAt.Format("2006-01-02 15:04:05"),
			s.TotalTrades,
			s.WinRate,
			cents(s.TotalPnlCents),
			s.SharpeRatio,
			s.ProfitFactor,
			cents(s.MaxDrawdownCents),
		)
	}
}

func (a *cli) printDaily(rows []history.DailyRow) {
	if len(rows) == 0 {
		fmt.Fprintln(a.out, "No snapshots. Run 'tradestats snapshot' first.")
		return
	}
	fmt.Fprintf(a.out, "%-12s %6s %6s %10s %10s %7s\n", "Date", "Trades", "Win%", "Net PnL", "MaxDD", "Sharpe")
	fmt.Fprintln(a.out, rule)
	for _, d := range rows {
		fmt.Fprintf(a.out, "%-12s %6d %6.1f %10s %10s %7.2f\n",
			d.Date,
			d.TotalTrades,
			d.WinRate,
			cents(d.TotalPnlCents),
			cents(d.MaxDrawdownCents),
			d.SharpeRatio,
		)
	}
}

func ratio(v float64, unbounded bool) string {
	if unbounded {
		return "inf"
	}
	return fmt.Sprintf("%.2f", v)
}

func cents(c int) string {
	d := history.Dollars(c)
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// writeYAML renders v through its JSON form so field names and order match
// the HTTP API.
func writeYAML(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

// blockStyle drops the flow and quoting styles the JSON source carries. The
// encoder still quotes strings that would otherwise read as another type.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
