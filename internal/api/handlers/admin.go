package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/plinko/internal/admin"
	"github.com/playmatatu/plinko/internal/config"
	"github.com/playmatatu/plinko/internal/game"
	"github.com/playmatatu/plinko/internal/table"
)

// AdminLogin validates operator credentials and returns a bearer token
func AdminLogin(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		username := strings.TrimSpace(req.Username)
		password := strings.TrimSpace(req.Password)

		op, err := admin.ValidateOperatorCredentials(db, username, password)
		if err != nil {
			log.Printf("[ADMIN] Login failed for username %s: %v", username, err)
			admin.LogAdminAction(db, username, c.ClientIP(), "/api/v1/admin/login", "login", map[string]interface{}{"username": username}, false)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		token, exp, err := issueOperatorToken(cfg, op.Username, op.Roles)
		if err != nil {
			log.Printf("[ADMIN] Failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		admin.LogAdminAction(db, username, c.ClientIP(), "/api/v1/admin/login", "login", map[string]interface{}{"username": username}, true)
		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"expires_at": exp.Format(time.RFC3339),
			"operator":   op,
		})
	}
}

// AdminMe returns the current operator
func AdminMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString(operatorContextKey)})
	}
}

// GetAdminRounds returns recorded rounds of a session, newest first. The
// current session is used unless ?session= is given.
func GetAdminRounds(db *sqlx.DB, mgr *table.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := c.DefaultQuery("session", mgr.SessionID())
		limit, offset := pagination(c, 50, 500)

		rounds, err := table.RecentRounds(db, session, limit, offset)
		if err != nil {
			log.Printf("[ADMIN] Failed to fetch rounds: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rounds"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"session": session, "rounds": rounds, "limit": limit, "offset": offset})
	}
}

// GetAdminStats returns the table counters kept in Redis
func GetAdminStats(mgr *table.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		stats, err := mgr.Stats(ctx)
		if err != nil {
			if errors.Is(err, table.ErrNoStats) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
				return
			}
			log.Printf("[ADMIN] Failed to fetch stats: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
			return
		}

		snap := mgr.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"session":      snap.SessionID,
			"balance":      snap.Balance,
			"balls_active": len(snap.Balls),
			"counters":     stats,
		})
	}
}

// ResetTable ends the current session and starts a new one with the startup
// table config plus the runtime overrides stored in the database.
func ResetTable(db *sqlx.DB, mgr *table.Manager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetString(operatorContextKey)

		next, err := admin.LoadTableConfig(db, cfg.Table)
		if err != nil {
			log.Printf("[ADMIN] Failed to load runtime config: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load runtime config"})
			return
		}

		prev := mgr.SessionID()
		if err := mgr.Reset(next); err != nil {
			log.Printf("[ADMIN] Reset rejected: %v", err)
			admin.LogAdminAction(db, username, c.ClientIP(), "/api/v1/admin/reset", "reset_table", map[string]interface{}{"error": err.Error()}, false)
			var cfgErr *game.ConfigError
			if errors.As(err, &cfgErr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": cfgErr.Field})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset table"})
			return
		}

		snap := mgr.Snapshot()
		admin.LogAdminAction(db, username, c.ClientIP(), "/api/v1/admin/reset", "reset_table", map[string]interface{}{"previous_session": prev, "session": snap.SessionID}, true)
		c.JSON(http.StatusOK, gin.H{"ok": true, "session": snap.SessionID, "balance": snap.Balance})
	}
}
