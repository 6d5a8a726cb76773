package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS accepts any origin: this API has no browser session cookies to
// protect, since auth is header-based (X-Appid/X-Key), not cookie-based.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"X-Appid", "X-Key", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: false,
	})
}
