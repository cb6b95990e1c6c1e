package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const CallerIDKey = "callerID"

// Identity reads the caller identity injected by the API gateway. Routes
// behind this middleware reject requests without a parseable X-User-ID;
// authentication itself happens upstream.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("X-User-ID")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Missing X-User-ID header",
			})
			return
		}

		callerID, err := strconv.ParseInt(header, 10, 64)
		if err != nil || callerID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid X-User-ID header",
			})
			return
		}

		c.Set(CallerIDKey, callerID)
		c.Next()
	}
}

// CallerID returns the identity set by Identity, or 0 when absent.
func CallerID(c *gin.Context) int64 {
	id, _ := c.Get(CallerIDKey)
	callerID, _ := id.(int64)
	return callerID
}
