package stats

import (
	"math"

	"github.com/gw/kalshi-tradestats/internal/tradelog"
)

// Binary contracts settle at 100 cents.
const payoutCents = 100

type outcomes struct {
	won, lost, pending int
}

func partition(trades []tradelog.TradeRecord) outcomes {
	var o outcomes
	for i := range trades {
		switch {
		case trades[i].Won():
			o.won++
		case trades[i].Lost():
			o.lost++
		default:
			o.pending++
		}
	}
	return o
}

// winRate is the settled win percentage, 0 with nothing settled.
func winRate(won, lost int) float64 {
	settled := won + lost
	if settled == 0 {
		return 0
	}
	return round1(float64(won) / float64(settled) * 100)
}

// pnlCents is the realized contribution of one trade: positive for a win,
// negative for a loss, zero while pending.
func pnlCents(r *tradelog.TradeRecord) int {
	switch {
	case r.Won():
		return (payoutCents - r.Price()) * r.Contracts()
	case r.Lost():
		return -r.Price() * r.Contracts()
	}
	return 0
}

type pnl struct {
	grossProfit int
	grossLoss   int
}

func (p pnl) total() int { return p.grossProfit - p.grossLoss }

func sumPnL(trades []tradelog.TradeRecord) pnl {
	var p pnl
	for i := range trades {
		c := pnlCents(&trades[i])
		if trades[i].Won() {
			p.grossProfit += c
		} else if trades[i].Lost() {
			p.grossLoss -= c
		}
	}
	return p
}

// profitFactor returns gross profit over gross loss. A history with profit but
// no loss is unbounded and reported as 0 with the flag set.
func profitFactor(p pnl) (value float64, unbounded bool) {
	if p.grossLoss > 0 {
		return finite(round2(float64(p.grossProfit) / float64(p.grossLoss))), false
	}
	if p.grossProfit > 0 {
		return 0, true
	}
	return 0, false
}

// tradeReturn is the settled return as a fraction of cost; a loss forfeits the stake.
func tradeReturn(r *tradelog.TradeRecord) float64 {
	if r.Lost() {
		return -1
	}
	return float64((payoutCents-r.Price())*r.Contracts()) / float64(r.Cost())
}

// jsRound rounds half up, toward positive infinity. Adding 0.5 before the
// floor would carry values just below one half up to the next integer.
func jsRound(v float64) float64 {
	f := math.Floor(v)
	if v-f >= 0.5 {
		return f + 1
	}
	return f
}

func round1(v float64) float64 { return jsRound(v*10) / 10 }
func round2(v float64) float64 { return jsRound(v*100) / 100 }

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
