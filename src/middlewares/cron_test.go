package middlewares

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func cronTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/cron", CronAuth, func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})
	return r
}

func TestCronAuth(t *testing.T) {
	router := cronTestRouter()

	os.Unsetenv("CRON_SECRET")
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/cron", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, 401, w.Code)

	os.Setenv("CRON_SECRET", "topsecret")
	defer os.Unsetenv("CRON_SECRET")

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/cron", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, 401, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/cron", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	router.ServeHTTP(w, req)
	assert.Equal(t, 403, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/cron", nil)
	req.Header.Set("Authorization", "Bearer topsecret")
	router.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)
}
