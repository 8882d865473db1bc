package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const testToken = "0123456789abcdef0123456789abcdef"

func setupAuthRouter(token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(AdminAuth(token))
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAdminAuth(t *testing.T) {
	tests := []struct {
		name           string
		token          string
		authorization  string
		expectedStatus int
	}{
		{
			name:           "valid token",
			token:          testToken,
			authorization:  "Bearer " + testToken,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing header",
			token:          testToken,
			authorization:  "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong scheme",
			token:          testToken,
			authorization:  "Basic " + testToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong token",
			token:          testToken,
			authorization:  "Bearer not-the-token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "empty configured token disables guard",
			token:          "",
			authorization:  "",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupAuthRouter(tt.token)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), "ERR_UNAUTHORIZED")
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	router := setupAuthRouter("")

	t.Run("generates when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("propagates when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("X-Request-ID", "req-42")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	})
}
