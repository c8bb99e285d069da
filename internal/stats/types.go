package stats

import "github.com/gw/kalshi-tradestats/internal/tradelog"

const (
	StreakWin  = "win"
	StreakLoss = "loss"
	StreakNone = "none"

	recentTradesLimit = 10
)

// Summary is the TradingStats response. Ratios are rounded and finite-guarded;
// latency fields are nil when no trade reported a latency.
type Summary struct {
	TotalTrades   int     `json:"totalTrades"`
	WonTrades     int     `json:"wonTrades"`
	LostTrades    int     `json:"lostTrades"`
	PendingTrades int     `json:"pendingTrades"`
	WinRate       float64 `json:"winRate"`

	TotalPnlCents         int     `json:"totalPnlCents"`
	GrossProfitCents      int     `json:"grossProfitCents"`
	GrossLossCents        int     `json:"grossLossCents"`
	ProfitFactor          float64 `json:"profitFactor"`
	ProfitFactorUnbounded bool    `json:"profitFactorUnbounded"`

	SharpeRatio        float64 `json:"sharpeRatio"`
	SortinoRatio       float64 `json:"sortinoRatio"`
	SortinoUnbounded   bool    `json:"sortinoUnbounded"`
	MaxDrawdownCents   int     `json:"maxDrawdownCents"`
	MaxDrawdownPercent float64 `json:"maxDrawdownPercent"`
	CalmarRatio        float64 `json:"calmarRatio"`

	AvgTradeDurationHours float64 `json:"avgTradeDurationHours"`
	AvgReturnCents        int     `json:"avgReturnCents"`

	LongestWinStreak  int    `json:"longestWinStreak"`
	LongestLossStreak int    `json:"longestLossStreak"`
	CurrentStreak     int    `json:"currentStreak"`
	CurrentStreakType string `json:"currentStreakType"`

	AvgLatencyMs      *float64 `json:"avgLatencyMs"`
	P95LatencyMs      *float64 `json:"p95LatencyMs"`
	MinLatencyMs      *float64 `json:"minLatencyMs"`
	MaxLatencyMs      *float64 `json:"maxLatencyMs"`
	LatencyTradeCount int      `json:"latencyTradeCount"`

	TodayTrades   int     `json:"todayTrades"`
	TodayWinRate  float64 `json:"todayWinRate"`
	TodayPnlCents int     `json:"todayPnlCents"`

	RecentTrades []tradelog.TradeRecord `json:"recentTrades"`
	LastUpdated  string                 `json:"lastUpdated"`
}
