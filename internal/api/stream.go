package api

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/gw/kalshi-tradestats/internal/stats"
)

const (
	defaultStreamInterval = 5 * time.Second
	writeWait             = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type logState struct {
	exists  bool
	size    int64
	modTime int64
}

func statLog(path string) logState {
	fi, err := os.Stat(path)
	if err != nil {
		return logState{}
	}
	return logState{exists: true, size: fi.Size(), modTime: fi.ModTime().UnixNano()}
}

// stream pushes a stats frame on connect and again whenever the trade log
// changes on disk. Errors are pushed as error payloads and the stream stays open.
func (h *StatsHandler) stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Warn("stream upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// The client never sends anything meaningful; reading surfaces the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	interval := h.StreamInterval
	if interval <= 0 {
		interval = defaultStreamInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := statLog(h.LogPath)
	if err := h.push(ctx, conn); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := statLog(h.LogPath)
			if cur == last {
				continue
			}
			last = cur
			if err := h.push(ctx, conn); err != nil {
				h.Logger.Debug("stream closed", zap.Error(err))
				return
			}
		}
	}
}

func (h *StatsHandler) push(ctx context.Context, conn *websocket.Conn) error {
	var frame interface{}
	summary, err := h.Stats.Stats(ctx)
	if err != nil {
		_, frame = stats.ErrorBody(err)
	} else {
		frame = summary
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(frame)
}
