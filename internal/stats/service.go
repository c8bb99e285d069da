package stats

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gw/kalshi-tradestats/internal/tradelog"
)

// Service recomputes statistics from the trade log on every call. It holds no
// mutable state and is safe for concurrent use.
type Service struct {
	LogPath string
	Dedupe  bool
	Logger  *zap.Logger
	Now     func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) Stats(ctx context.Context) (Summary, error) {
	res, err := tradelog.Load(ctx, s.LogPath)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("trade log unavailable", zap.String("path", s.LogPath), zap.Error(err))
		}
		return Summary{}, err
	}

	records := res.Records
	if s.Dedupe {
		records = tradelog.Dedupe(records)
	}
	trades := tradelog.Executed(records)

	if s.Logger != nil {
		s.Logger.Debug("trade log scanned",
			zap.String("path", s.LogPath),
			zap.Int("lines", res.Lines),
			zap.Int("skipped", res.Skipped),
			zap.Int("executed", len(trades)),
		)
	}
	return Compute(trades, s.now()), nil
}

// ErrorResponse is the payload returned instead of a Summary.
type ErrorResponse struct {
	Error   string `json:"error"`
	Path    string `json:"path,omitempty"`
	Details string `json:"details,omitempty"`
}

// ErrorBody maps a Stats error to an HTTP status and payload.
func ErrorBody(err error) (int, ErrorResponse) {
	var le *tradelog.LoadError
	if errors.As(err, &le) && le.Kind == tradelog.KindNotFound {
		return http.StatusNotFound, ErrorResponse{Error: "Trade log not found", Path: le.Path}
	}
	return http.StatusInternalServerError, ErrorResponse{
		Error:   "Failed to compute trading stats",
		Details: err.Error(),
	}
}
