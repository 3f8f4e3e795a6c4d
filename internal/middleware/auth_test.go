package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"easypro-api/internal/auth"
	"easypro-api/internal/database"
	"easypro-api/internal/models"
	"easypro-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db
}

func seed(t *testing.T, role models.Role) (models.User, string) {
	t.Helper()
	u := models.User{FullName: "Test", Email: string(role) + "@example.com", Password: "x", Role: role}
	require.NoError(t, database.DB.Create(&u).Error)
	token, err := auth.GenerateToken(u.ID, string(u.Role))
	require.NoError(t, err)
	return u, token
}

func protectedRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/protected", mw, func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, user.ID+"|"+c.GetString(ContextRole))
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProtect_Success(t *testing.T) {
	setup(t)
	user, token := seed(t, models.RoleUser)

	w := get(protectedRouter(ProtectUser()), "/protected", token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, user.ID+"|user", w.Body.String())
}

func TestProtect_QueryTokenFallback(t *testing.T) {
	setup(t)
	_, token := seed(t, models.RoleUser)

	w := get(protectedRouter(ProtectUser()), "/protected?token="+token, "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestProtect_MissingToken(t *testing.T) {
	setup(t)

	w := get(protectedRouter(ProtectUser()), "/protected", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"success":false,"message":"Not authorized, no token"}`, w.Body.String())
}

func TestProtect_BadToken(t *testing.T) {
	setup(t)

	w := get(protectedRouter(ProtectUser()), "/protected", "not-a-jwt")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"success":false,"message":"Not authorized, token failed"}`, w.Body.String())
}

func TestProtect_UserGone(t *testing.T) {
	setup(t)
	token, err := auth.GenerateToken("ghost", "user")
	require.NoError(t, err)

	w := get(protectedRouter(ProtectUser()), "/protected", token)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProtect_AdminOnly(t *testing.T) {
	setup(t)
	_, userToken := seed(t, models.RoleUser)
	_, adminToken := seed(t, models.RoleAdmin)
	r := protectedRouter(ProtectAdmin())

	w := get(r, "/protected", userToken)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.JSONEq(t, `{"success":false,"message":"Not authorized as an admin"}`, w.Body.String())

	w = get(r, "/protected", adminToken)
	require.Equal(t, http.StatusOK, w.Code)
}
