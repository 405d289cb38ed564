package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/medquizai/medquiz-backend/internal/middleware"
	"github.com/medquizai/medquiz-backend/internal/service"
	ws "github.com/medquizai/medquiz-backend/internal/websocket"
)

// countdownInterval is how often the remaining session time is recomputed
// and pushed. The contract is at least once per minute.
const countdownInterval = 30 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the session expiry countdown.
type WSHandler struct {
	authService *service.AuthService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(authService *service.AuthService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		authService: authService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// SessionCountdownStream godoc
// WS /ws/v1/session/countdown?token=...
// Pushes the remaining session time on every tick. When the session reaches
// zero (or the record is revoked), a terminal "locked" event is sent and the
// connection closes — the client must return to the access gate rather than
// silently continue.
func (h *WSHandler) SessionCountdownStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("client_id", claims.ClientID).Logger()
	wsLog.Info().Msg("Countdown stream connected")

	// Reader goroutine just watches for the peer closing the connection.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(countdownInterval)
	defer ticker.Stop()

	for {
		if !h.pushTick(c, conn, claims.ClientID) {
			wsLog.Info().Msg("Session locked, closing stream")
			return
		}

		select {
		case <-done:
			wsLog.Debug().Msg("Countdown stream closed by client")
			return
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// pushTick re-evaluates the session and writes one event. Returns false once
// the terminal locked event has been sent.
func (h *WSHandler) pushTick(c *gin.Context, conn *websocket.Conn, clientID string) bool {
	session := h.authService.CheckSession(c.Request.Context(), clientID)
	if !session.Authorized {
		_ = ws.WriteTyped(conn, ws.LockedResponse{Event: ws.EventLocked})
		return false
	}

	remaining := session.ExpiresAt - time.Now().UnixMilli()
	if remaining < 0 {
		remaining = 0
	}

	if err := ws.WriteTyped(conn, ws.CountdownResponse{
		Event:       ws.EventCountdown,
		ExpiresAt:   session.ExpiresAt,
		RemainingMS: remaining,
	}); err != nil {
		return false
	}
	return true
}
