package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gw/kalshi-tradestats/internal/history"
	"github.com/gw/kalshi-tradestats/internal/stats"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type StatsProvider interface {
	Stats(ctx context.Context) (stats.Summary, error)
}

type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]history.Snapshot, error)
	Daily(ctx context.Context) ([]history.DailyRow, error)
}

// StatsHandler serves the trading stats endpoints. History is optional; the
// history routes answer 503 without it.
type StatsHandler struct {
	Stats          StatsProvider
	History        HistoryReader
	LogPath        string
	StreamInterval time.Duration
	Logger         *zap.Logger
}

func (h *StatsHandler) Register(r *gin.Engine) {
	if h.Logger == nil {
		h.Logger = zap.NewNop()
	}
	r.GET("/healthz", h.health)

	g := r.Group("/api/trading/stats")
	g.GET("", h.current)
	g.GET("/history", h.history)
	g.GET("/daily", h.daily)
	g.GET("/stream", h.stream)
}

// NewRouter builds the gin engine with recovery, request IDs and access logging.
func NewRouter(h *StatsHandler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if h.Logger == nil {
		h.Logger = logger
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestID())
	engine.Use(AccessLog(logger))
	h.Register(engine)
	return engine
}

func (h *StatsHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *StatsHandler) current(c *gin.Context) {
	summary, err := h.Stats.Stats(c.Request.Context())
	if err != nil {
		status, body := stats.ErrorBody(err)
		_ = c.Error(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *StatsHandler) history(c *gin.Context) {
	if h.History == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "History store not configured"})
		return
	}
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	snaps, err := h.History.Recent(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read history", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": snaps, "limit": limit})
}

func (h *StatsHandler) daily(c *gin.Context) {
	if h.History == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "History store not configured"})
		return
	}
	days, err := h.History.Daily(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read history", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}
