package stats

import (
	"math"
	"time"

	"github.com/gw/kalshi-tradestats/internal/tradelog"
)

// Compute summarizes executed trades in log order. It does no I/O; now fixes
// the UTC day for the daily rollup and the lastUpdated stamp.
func Compute(trades []tradelog.TradeRecord, now time.Time) Summary {
	counts := partition(trades)
	p := sumPnL(trades)

	var settled []*tradelog.TradeRecord
	var returns []float64
	invested := 0
	for i := range trades {
		if !trades[i].Settled() {
			continue
		}
		settled = append(settled, &trades[i])
		returns = append(returns, tradeReturn(&trades[i]))
		invested += trades[i].Cost()
	}

	sorted := sortByTime(settled)
	dd := maxDrawdown(sorted)
	st := computeStreaks(sorted)
	lat := latencies(trades)

	pf, pfUnbounded := profitFactor(p)
	sortino := sortinoRatio(returns)

	calmar := 0.0
	if len(settled) >= 2 && dd.maxPercent > 0 {
		calmar = finite(round2(calmarRatio(p.total(), invested, tradingDays(sorted), dd.maxPercent)))
	}

	avgReturn := 0
	if len(settled) > 0 {
		avgReturn = int(jsRound(float64(p.total()) / float64(len(settled))))
	}

	today := todayRollup(trades, now)

	return Summary{
		TotalTrades:   len(trades),
		WonTrades:     counts.won,
		LostTrades:    counts.lost,
		PendingTrades: counts.pending,
		WinRate:       winRate(counts.won, counts.lost),

		TotalPnlCents:         p.total(),
		GrossProfitCents:      p.grossProfit,
		GrossLossCents:        p.grossLoss,
		ProfitFactor:          pf,
		ProfitFactorUnbounded: pfUnbounded,

		SharpeRatio:        finite(round2(sharpeRatio(returns))),
		SortinoRatio:       finite(round2(sortino)),
		SortinoUnbounded:   math.IsInf(sortino, 1),
		MaxDrawdownCents:   dd.maxCents,
		MaxDrawdownPercent: round2(dd.maxPercent),
		CalmarRatio:        calmar,

		AvgTradeDurationHours: avgDurationHours(trades),
		AvgReturnCents:        avgReturn,

		LongestWinStreak:  st.longestWin,
		LongestLossStreak: st.longestLoss,
		CurrentStreak:     st.current,
		CurrentStreakType: st.currentType,

		AvgLatencyMs:      lat.avg,
		P95LatencyMs:      lat.p95,
		MinLatencyMs:      lat.min,
		MaxLatencyMs:      lat.max,
		LatencyTradeCount: lat.count,

		TodayTrades:   today.trades,
		TodayWinRate:  today.winRate,
		TodayPnlCents: today.pnlCents,

		RecentTrades: recentTrades(trades, recentTradesLimit),
		LastUpdated:  now.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
}

type daily struct {
	trades   int
	winRate  float64
	pnlCents int
}

func todayRollup(trades []tradelog.TradeRecord, now time.Time) daily {
	date := now.UTC().Format("2006-01-02")
	var todays []tradelog.TradeRecord
	for i := range trades {
		if trades[i].Date() == date {
			todays = append(todays, trades[i])
		}
	}
	counts := partition(todays)
	return daily{
		trades:   len(todays),
		winRate:  winRate(counts.won, counts.lost),
		pnlCents: sumPnL(todays).total(),
	}
}

// recentTrades returns the last n trades in file order, newest first.
func recentTrades(trades []tradelog.TradeRecord, n int) []tradelog.TradeRecord {
	start := len(trades) - n
	if start < 0 {
		start = 0
	}
	out := make([]tradelog.TradeRecord, 0, len(trades)-start)
	for i := len(trades) - 1; i >= start; i-- {
		out = append(out, trades[i])
	}
	return out
}
