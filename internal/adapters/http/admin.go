package http

import (
	"net/http"
	"time"

	"github.com/duskline/walkie/internal/app"
	"github.com/duskline/walkie/internal/core"
	"github.com/gin-gonic/gin"
)

// adminAuth enforces spec.md §6's shared bearer token, presented as
// either the x-admin-token header or a ?token= query parameter.
func adminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := c.GetHeader("x-admin-token")
		if presented == "" {
			presented = c.Query("token")
		}
		if presented != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// registerAdminRoutes implements the full §6 admin endpoint table.
func registerAdminRoutes(g *gin.RouterGroup, orch *app.Orchestrator, startedAt time.Time) {
	g.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, orch.Snapshot(startedAt))
	})

	g.POST("/channel/create", func(c *gin.Context) {
		var body struct {
			Channel string `json:"channel"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Channel == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing channel"})
			return
		}
		if err := orch.AdminCreateChannel(body.Channel); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "channel": body.Channel})
	})

	g.DELETE("/channel/:channel", func(c *gin.Context) {
		if err := orch.AdminDeleteChannel(c.Param("channel")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	g.POST("/client/:name/join", func(c *gin.Context) {
		name := c.Param("name")
		var body struct {
			Channel string `json:"channel"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Channel == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing channel"})
			return
		}
		if err := orch.AdminForceJoin(name, body.Channel); err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	g.POST("/client/:name/leave", func(c *gin.Context) {
		if err := orch.AdminForceLeave(c.Param("name")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	g.POST("/client/:name/mute", func(c *gin.Context) {
		name := c.Param("name")
		body := struct {
			Muted *bool `json:"muted"`
		}{}
		_ = c.ShouldBindJSON(&body)
		muted := true
		if body.Muted != nil {
			muted = *body.Muted
		}
		if err := orch.AdminForceMute(name, muted); err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "name": name, "muted": muted})
	})

	g.POST("/client/:name/kick", func(c *gin.Context) {
		if err := orch.AdminKick(c.Param("name")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	g.GET("/panel", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(renderPanel(orch.Snapshot(startedAt))))
	})
}

// statusFor maps an admin lookup failure to an HTTP status: an unknown
// target channel or a name already in use in it is a 400; any other
// failure (no such client) is a 404, matching the §6 table's
// "400, 404" column for join/mute.
func statusFor(err error) int {
	switch err {
	case core.ErrNoSuchChannel, core.ErrNameInUseInChannel:
		return http.StatusBadRequest
	default:
		return http.StatusNotFound
	}
}
