package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"folio_backend/internal/middleware"
	"folio_backend/internal/models"
)

// roleRouter поднимает маршрут, защищенный RoleMiddleware, с ролью,
// подложенной в контекст напрямую (без разбора токена).
func roleRouter(required models.UserRole, setRole any) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded",
		func(c *gin.Context) {
			if setRole != nil {
				c.Set("role", setRole)
			}
			c.Next()
		},
		middleware.RoleMiddleware(required),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		},
	)
	return r
}

func performGuarded(r *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoleMiddleware(t *testing.T) {
	cases := []struct {
		name     string
		setRole  any
		expected int
	}{
		{"matching role", models.UserRoleAdmin, http.StatusOK},
		{"role stored as string", "admin", http.StatusOK},
		{"wrong role", models.UserRoleUser, http.StatusForbidden},
		{"no role in context", nil, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performGuarded(roleRouter(models.UserRoleAdmin, tc.setRole))
			assert.Equal(t, tc.expected, w.Code)
		})
	}
}

func TestContextAccessors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Equal(t, "", middleware.GetUserID(c))
	assert.Equal(t, models.UserRole(""), middleware.GetUserRole(c))

	c.Set("userID", "user-1")
	c.Set("role", models.UserRoleAdmin)
	assert.Equal(t, "user-1", middleware.GetUserID(c))
	assert.Equal(t, models.UserRoleAdmin, middleware.GetUserRole(c))

	// Роль, сохраненная строкой, тоже читается
	c.Set("role", "user")
	assert.Equal(t, models.UserRoleUser, middleware.GetUserRole(c))
}
