package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/plinko/internal/api/handlers"
	"github.com/playmatatu/plinko/internal/config"
	"github.com/playmatatu/plinko/internal/middleware"
	"github.com/playmatatu/plinko/internal/table"
	"github.com/playmatatu/plinko/internal/ws"
)

// SetupRoutes configures all API routes. Admin routes need the database and
// are skipped without one.
func SetupRoutes(router *gin.Engine, db *sqlx.DB, cfg *config.Config, mgr *table.Manager) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(mgr))

		t := v1.Group("/table")
		{
			t.GET("/board", handlers.GetBoard(mgr))
			t.GET("/state", handlers.GetTableState(mgr))
			t.POST("/drop", handlers.DropBall(mgr))
			t.GET("/ws", middleware.WebSocketCORSCheck(cfg), ws.HandleWebSocket(mgr))
		}

		if db == nil {
			log.Println("[ADMIN] No database configured; admin routes disabled")
			return
		}

		v1.POST("/admin/login", handlers.AdminLogin(db, cfg))

		a := v1.Group("/admin", handlers.AdminAuthMiddleware(cfg))
		{
			a.GET("/me", handlers.AdminMe())
			a.GET("/rounds", handlers.GetAdminRounds(db, mgr))
			a.GET("/stats", handlers.GetAdminStats(mgr))
			a.POST("/reset", handlers.ResetTable(db, mgr, cfg))
			a.GET("/config", handlers.GetAdminRuntimeConfig(db, cfg))
			a.PUT("/config/:key", handlers.UpdateAdminRuntimeConfig(db))
			a.GET("/audit", handlers.GetAdminAuditLogs(db))
		}
	}
}
