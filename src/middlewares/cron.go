package middlewares

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"hbs/src/config"

	"github.com/gin-gonic/gin"
)

// CronAuth guards the scheduled-job endpoints with a shared bearer secret.
// Session auth does not apply here; the external trigger only carries the
// configured CRON_SECRET.
func CronAuth(ctx *gin.Context) {
	secret := config.CronSecret()
	if secret == "" {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer ") {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	supplied := strings.TrimPrefix(bearerToken, "Bearer ")
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(secret)) != 1 {
		ctx.AbortWithStatus(http.StatusForbidden)
		return
	}
}
