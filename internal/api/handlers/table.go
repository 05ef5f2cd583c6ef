package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/plinko/internal/table"
)

// GetBoard returns the static layout: pegs, payout zones and their labels
func GetBoard(mgr *table.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, mgr.Layout())
	}
}

// GetTableState returns the balance and every ball in flight
func GetTableState(mgr *table.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, mgr.Snapshot())
	}
}

// DropBall requests a new ball. A refused drop is not an error: the balance
// was below the cost of a play and nothing changed.
func DropBall(mgr *table.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := mgr.Drop()
		if !res.Accepted {
			c.JSON(http.StatusPaymentRequired, gin.H{
				"accepted": false,
				"balance":  res.Balance,
				"error":    "Insufficient balance",
			})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
