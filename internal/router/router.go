package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/medquizai/medquiz-backend/internal/config"
	"github.com/medquizai/medquiz-backend/internal/handler"
	"github.com/medquizai/medquiz-backend/internal/middleware"
	"github.com/medquizai/medquiz-backend/internal/response"
	"github.com/medquizai/medquiz-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Quiz       *handler.QuizHandler
	Preference *handler.PreferenceHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", middleware.HeaderClientID}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the gate (30 attempts per minute per IP).
	unlockLimiter := middleware.NewRateLimiter(30, time.Minute)
	// Generation is expensive upstream; keep it tighter.
	generateLimiter := middleware.NewRateLimiter(10, time.Minute)

	// ─── 1. Gate Group (no token; identified by X-Client-ID) ──────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/unlock", unlockLimiter.Middleware(), handlers.Auth.Unlock)
		auth.GET("/session", handlers.Auth.GetSession)
		auth.POST("/logout", middleware.RequireSession(authService), handlers.Auth.Logout)
	}

	// ─── 2. Quiz Group (session required) ─────────────────────────────
	quizAPI := router.Group("/api/v1/quiz")
	quizAPI.Use(middleware.RequireSession(authService))
	{
		quizAPI.POST("/generate", generateLimiter.Middleware(), handlers.Quiz.Generate)
		quizAPI.POST("/answer", handlers.Quiz.Answer)
		quizAPI.POST("/submit", handlers.Quiz.Submit)
		quizAPI.POST("/reset", handlers.Quiz.Reset)
		quizAPI.GET("/state", handlers.Quiz.State)
	}

	// ─── 3. Preference Group (no token; device-scoped) ────────────────
	prefAPI := router.Group("/api/v1/preference")
	{
		prefAPI.GET("/theme", handlers.Preference.GetTheme)
		prefAPI.PUT("/theme", handlers.Preference.SetTheme)
	}

	// ─── 4. WebSocket Group (token via query param) ───────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireSessionWS(authService))
	{
		ws.GET("/session/countdown", handlers.WS.SessionCountdownStream)
	}

	return router
}
