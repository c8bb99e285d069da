package tradelog

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	TypeTrade      = "trade"
	StatusExecuted = "executed"
	ResultWon      = "won"
	ResultLost     = "lost"
)

// TradeRecord is one line of the autotrader's NDJSON log. Optional fields are
// pointers so that "absent" and "zero" stay distinguishable. Counts and cents
// decode as float64 because some writers emit whole numbers as 45.0.
type TradeRecord struct {
	Timestamp       string   `json:"timestamp"`
	Type            string   `json:"type"`
	OrderID         string   `json:"order_id,omitempty"`
	Ticker          string   `json:"ticker"`
	Side            string   `json:"side"`                // "yes" or "no"
	ContractCount   *float64 `json:"contracts,omitempty"` // defaults to 1
	PriceCents      *float64 `json:"price_cents,omitempty"`
	CostCents       *float64 `json:"cost_cents,omitempty"`
	Edge            *float64 `json:"edge,omitempty"`
	OurProb         *float64 `json:"our_prob,omitempty"`
	MarketProb      *float64 `json:"market_prob,omitempty"`
	OrderStatus     string   `json:"order_status"`            // only "executed" is analyzed
	ResultStatus    string   `json:"result_status,omitempty"` // "won", "lost", or pending
	MinutesToExpiry *float64 `json:"minutes_to_expiry,omitempty"`
	LatencyMs       *float64 `json:"latency_ms,omitempty"`

	// Raw is the line as it was read. Rewrites emit it verbatim so fields
	// this type does not model survive.
	Raw json.RawMessage `json:"-"`
}

// Contracts returns the contract count, 1 when absent.
func (r *TradeRecord) Contracts() int {
	if r.ContractCount == nil {
		return 1
	}
	return int(*r.ContractCount)
}

// Price returns the per-contract price in cents, 0 when absent.
func (r *TradeRecord) Price() int {
	if r.PriceCents == nil {
		return 0
	}
	return int(*r.PriceCents)
}

// Cost returns cost_cents, or price * contracts when the writer omitted it.
func (r *TradeRecord) Cost() int {
	if r.CostCents != nil {
		return int(*r.CostCents)
	}
	return r.Price() * r.Contracts()
}

func (r *TradeRecord) IsExecutedTrade() bool {
	return r.Type == TypeTrade && r.OrderStatus == StatusExecuted
}

func (r *TradeRecord) Won() bool  { return r.ResultStatus == ResultWon }
func (r *TradeRecord) Lost() bool { return r.ResultStatus == ResultLost }

// Settled reports whether the market outcome is known.
func (r *TradeRecord) Settled() bool { return r.Won() || r.Lost() }

// Time parses the record timestamp. ok is false for malformed timestamps.
func (r *TradeRecord) Time() (t time.Time, ok bool) {
	ts := strings.TrimSpace(r.Timestamp)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, ts); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Date returns the YYYY-MM-DD date portion of the timestamp as written,
// without shifting offset timestamps into UTC.
func (r *TradeRecord) Date() string {
	if t, ok := r.Time(); ok {
		return t.Format("2006-01-02")
	}
	if len(r.Timestamp) >= 10 {
		return r.Timestamp[:10]
	}
	return ""
}
