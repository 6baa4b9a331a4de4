// Package http wires the admin HTTP API, the admin panel, and the
// WebSocket signalling upgrade endpoint onto one gin.Engine. Grounded
// on the teacher's router (internal/adapters/http/router.go).
package http

import (
	"time"

	"github.com/duskline/walkie/internal/adapters/ws"
	"github.com/duskline/walkie/internal/app"
	"github.com/duskline/walkie/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SetupRouter builds the full HTTP surface (spec.md §6): public health
// endpoints, the signalling WebSocket upgrade, and the bearer-token-
// gated admin API and panel.
func SetupRouter(cfg *config.Config, orch *app.Orchestrator, startedAt time.Time, log zerolog.Logger) *gin.Engine {
	log = log.With().Str("module", "adapters.http").Logger()

	r := gin.New()
	r.Use(gin.Recovery())

	wsHandler := ws.NewHandler(orch, log)

	r.GET("/", func(c *gin.Context) {
		c.String(200, "walkie relay is running")
	})
	r.GET("/status", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"uptime":       time.Since(startedAt).Seconds(),
			"totalClients": len(orch.Sessions.AllRegistered()),
			"channels":     orch.Channels.List(),
		})
	})
	r.GET("/ws", wsHandler.Serve)

	admin := r.Group("/admin")
	admin.Use(adminAuth(cfg.AdminToken))
	registerAdminRoutes(admin, orch, startedAt)

	log.Info().Msg("router set up")
	return r
}
