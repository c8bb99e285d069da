package stats

import (
	"math"
	"sort"

	"github.com/gw/kalshi-tradestats/internal/tradelog"
)

type latencyStats struct {
	avg, p95, min, max *float64
	count              int
}

// latencies uses nearest-rank percentiles over every trade that reported a fill latency.
func latencies(trades []tradelog.TradeRecord) latencyStats {
	var ls []float64
	for i := range trades {
		if l := trades[i].LatencyMs; l != nil && *l > 0 {
			ls = append(ls, *l)
		}
	}
	n := len(ls)
	if n == 0 {
		return latencyStats{}
	}
	sort.Float64s(ls)

	avg := jsRound(mean(ls))
	idx := int(math.Floor(float64(n) * 0.95))
	if idx > n-1 {
		idx = n - 1
	}
	p95, lo, hi := ls[idx], ls[0], ls[n-1]
	return latencyStats{avg: &avg, p95: &p95, min: &lo, max: &hi, count: n}
}

// avgDurationHours averages minutes_to_expiry over trades that report it.
func avgDurationHours(trades []tradelog.TradeRecord) float64 {
	var sum float64
	n := 0
	for i := range trades {
		if m := trades[i].MinutesToExpiry; m != nil && *m > 0 {
			sum += *m
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return round1(sum / float64(n) / 60)
}
