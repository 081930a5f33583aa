package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCacheRouterHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name      string
		cacheTime int
		want      string
	}{
		{"no cache", CacheNoCache, "no-cache"},
		{"custom leaves header alone", CacheCustom, ""},
		{"max age", 60, "private, max-age=60"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)
			(&CacheRouter{CacheTime: tt.cacheTime}).Handler()(c)
			if got := w.Header().Get("cache-control"); got != tt.want {
				t.Errorf("cache-control = %q, want %q", got, tt.want)
			}
		})
	}
}
