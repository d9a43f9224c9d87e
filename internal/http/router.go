// Package http wires the gin router for the usage hub: refresh triggers,
// snapshot reads, and a health probe.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewRouter assembles the service routes. /healthz is unauthenticated; the
// /v0 group is guarded by the static bearer token when one is configured.
func NewRouter(handler *UsageHandler, conn *gorm.DB, accessToken string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", healthz(conn))

	v0 := router.Group("/v0", TokenAuthMiddleware(accessToken))
	{
		v0.POST("/usage/refresh", handler.Refresh)
		v0.POST("/usage/refresh-monthly", handler.RefreshMonthly)
		v0.GET("/usage", handler.Usage)
	}

	return router
}

func healthz(conn *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if conn == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
			return
		}
		sqlDB, errDB := conn.DB()
		if errDB != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
			return
		}
		if errPing := sqlDB.PingContext(c.Request.Context()); errPing != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
