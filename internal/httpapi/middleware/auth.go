// Package middleware holds the Conversion/Pipeline/Video APIs' gin
// middleware: app-key auth and CORS.
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/shark8848/knowledge-transformer/internal/platform/appkey"
	"github.com/shark8848/knowledge-transformer/internal/platform/apierr"
)

// AppKeyAuth validates the X-Appid/X-Key header pair (or ?appid=&key=
// query params) against validator.
func AppKeyAuth(validator *appkey.Validator, headerAppid, headerKey string, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !required {
			c.Next()
			return
		}

		appid := c.GetHeader(headerAppid)
		if appid == "" {
			appid = c.Query("appid")
		}
		key := c.GetHeader(headerKey)
		if key == "" {
			key = c.Query("key")
		}

		if appid == "" || key == "" {
			abortWithAPIError(c, apierr.Auth(true, nil))
			return
		}
		if !validator.IsValid(appid, key) {
			abortWithAPIError(c, apierr.Auth(false, nil))
			return
		}
		c.Next()
	}
}

func abortWithAPIError(c *gin.Context, err *apierr.Error) {
	c.AbortWithStatusJSON(err.Status, gin.H{
		"status":       "failure",
		"error_code":   string(err.Code),
		"error_status": err.Status,
		"message":      err.Error(),
		"zh_message":   err.ZhMessage(),
	})
}
