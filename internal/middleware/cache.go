package middleware

import "github.com/gin-gonic/gin"

// NoStore keeps browsers and proxies from caching pages and responses that carry
// patient data
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}
