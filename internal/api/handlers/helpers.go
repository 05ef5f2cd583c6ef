package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// pagination reads limit and offset query params, clamping limit to max.
func pagination(c *gin.Context, defaultLimit, max int) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > max {
		limit = max
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
