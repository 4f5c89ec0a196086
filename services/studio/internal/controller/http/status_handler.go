package http

import (
	"context"
	"net/http"
	"strings"

	"face-animation/pkg/logger"
	"face-animation/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// StatusSource streams render status payloads for one user.
// *cache.StatusFeed implements it.
type StatusSource interface {
	Subscribe(ctx context.Context, userID string) (<-chan string, func() error, error)
}

type StatusHandler struct {
	source   StatusSource
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewStatusHandler accepts upgrades from allowedOrigins or from clients that
// send no Origin header.
func NewStatusHandler(source StatusSource, allowedOrigins []string, logger *logger.Logger) *StatusHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimSpace(o)] = true
	}
	return &StatusHandler{
		source: source,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
		logger: logger,
	}
}

// Stream godoc
// @Summary      Stream animation status
// @Description  Upgrades to a WebSocket that receives {animation_id, status, at} when a render of the caller finishes
// @Tags         animations
// @Security     SessionCookie
// @Success      101
// @Failure      401  {object}  Response
// @Failure      503  {object}  Response
// @Router       /animations/ws [get]
func (h *StatusHandler) Stream(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		failure(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if h.source == nil {
		failure(c, http.StatusServiceUnavailable, "Status feed unavailable")
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	events, closeFeed, err := h.source.Subscribe(ctx, userID)
	if err != nil {
		h.logger.Warn("Failed to subscribe to status feed: %v", err)
		failure(c, http.StatusServiceUnavailable, "Status feed unavailable")
		return
	}
	defer closeFeed()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// The upgrader already answered.
		h.logger.Warn("Failed to upgrade connection to WebSocket: %v", err)
		return
	}
	defer conn.Close()
	h.logger.Info("Status stream connected for user %s", userID)

	// Reads only serve control frames; any error means the client is gone.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Status stream disconnected for user %s", userID)
			return
		case payload, ok := <-events:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
				h.logger.Warn("Failed to write status event: %v", err)
				return
			}
		}
	}
}
