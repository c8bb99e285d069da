package stats

import (
	"sort"
	"time"

	"github.com/gw/kalshi-tradestats/internal/tradelog"
)

type timedTrade struct {
	at    time.Time
	trade *tradelog.TradeRecord
}

// sortByTime orders trades by timestamp, oldest first. Settlements can be
// logged out of entry order, so file order is not trusted here. Malformed
// timestamps sort as the zero time.
func sortByTime(trades []*tradelog.TradeRecord) []timedTrade {
	out := make([]timedTrade, len(trades))
	for i, t := range trades {
		at, _ := t.Time()
		out[i] = timedTrade{at: at, trade: t}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].at.Before(out[j].at) })
	return out
}

type drawdown struct {
	maxCents   int
	maxPercent float64 // relative to the peak that produced maxCents
}

func maxDrawdown(sorted []timedTrade) drawdown {
	var dd drawdown
	cumulative, peak := 0, 0
	for _, tt := range sorted {
		cumulative += pnlCents(tt.trade)
		if cumulative > peak {
			peak = cumulative
		}
		current := peak - cumulative
		if current > dd.maxCents {
			dd.maxCents = current
			dd.maxPercent = 0
			if current > 0 && peak > 0 {
				dd.maxPercent = float64(current) / float64(peak) * 100
			}
		}
	}
	return dd
}

// tradingDays is the span between the first and last settlement in days, at least 1.
func tradingDays(sorted []timedTrade) float64 {
	if len(sorted) == 0 {
		return 1
	}
	days := sorted[len(sorted)-1].at.Sub(sorted[0].at).Hours() / 24
	if days < 1 {
		return 1
	}
	return days
}

type streaks struct {
	longestWin  int
	longestLoss int
	current     int // positive for wins, negative for losses
	currentType string
}

func computeStreaks(sorted []timedTrade) streaks {
	s := streaks{currentType: StreakNone}
	win, loss := 0, 0
	for _, tt := range sorted {
		if tt.trade.Won() {
			win++
			loss = 0
			if win > s.longestWin {
				s.longestWin = win
			}
		} else {
			loss++
			win = 0
			if loss > s.longestLoss {
				s.longestLoss = loss
			}
		}
	}

	if len(sorted) == 0 {
		return s
	}
	lastWon := sorted[len(sorted)-1].trade.Won()
	n := 0
	for i := len(sorted) - 1; i >= 0 && sorted[i].trade.Won() == lastWon; i-- {
		n++
	}
	if lastWon {
		s.current, s.currentType = n, StreakWin
	} else {
		s.current, s.currentType = -n, StreakLoss
	}
	return s
}
