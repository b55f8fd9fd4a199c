package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"

	"reviewhub/internal/http-api/policy"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withPrincipal stands in for the auth middleware in handler tests.
func withPrincipal(p policy.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("principal", p)
		c.Next()
	}
}

func performRequest(r http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
