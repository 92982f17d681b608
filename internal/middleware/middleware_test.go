package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-directory/internal/models"
	"hospital-directory/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.InitJWT("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
}

func adminRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/open", OptionalAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, "%d:%s", UserID(c), Role(c))
	})
	r.POST("/admin", AuthMiddleware(), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func bearer(t *testing.T, userID uint, role models.Role) string {
	t.Helper()
	token, err := utils.GenerateAccessToken(userID, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuth_AdminRoute(t *testing.T) {
	r := adminRouter()
	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token abc", http.StatusUnauthorized},
		{"bad token", "Bearer abc", http.StatusUnauthorized},
		{"unknown role", bearer(t, 3, "superuser"), http.StatusUnauthorized},
		{"user role", bearer(t, 2, models.RoleUser), http.StatusForbidden},
		{"admin role", bearer(t, 1, models.RoleAdmin), http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/admin", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.code, w.Code)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	r := adminRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, "0:", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", bearer(t, 5, "admin"))
	req.Header.Set(HeaderRequestID, "abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, "5:admin", w.Body.String())
	assert.Equal(t, "abc", w.Header().Get(HeaderRequestID))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://allowed.test"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://allowed.test")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://allowed.test", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.test")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
