package handlers

import (
	"net/http"
	"testing"

	"easypro-api/internal/auth"
	"easypro-api/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newAuthRouter() *gin.Engine {
	r := gin.New()
	r.POST("/easyPro/auth/register", Register)
	r.POST("/easyPro/auth/login", Login)
	users := r.Group("/easyPro/users")
	users.GET("/me", middleware.ProtectUser(), GetMe)
	users.GET("", middleware.ProtectAdmin(), GetAllUsers)
	return r
}

func TestRegisterAndLogin(t *testing.T) {
	setupDB(t)
	r := newAuthRouter()

	w := doJSON(r, http.MethodPost, "/easyPro/auth/register", "", gin.H{
		"fullName": "Alice Doe",
		"email":    "Alice@Example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	require.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)
	require.Equal(t, "alice@example.com", user["email"])
	require.Equal(t, "user", user["role"])
	require.NotContains(t, user, "password")

	claims, err := auth.ValidateToken(body["token"].(string))
	require.NoError(t, err)
	require.Equal(t, user["id"], claims.UserID)

	w = doJSON(r, http.MethodPost, "/easyPro/auth/login", "", gin.H{"email": "alice@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, decode(t, w)["token"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := setupDB(t)
	seedUser(t, db, "bob@example.com", "user")
	r := newAuthRouter()

	w := doJSON(r, http.MethodPost, "/easyPro/auth/register", "", gin.H{
		"fullName": "Bob",
		"email":    "bob@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "User already exists", decode(t, w)["message"])
}

func TestRegister_InvalidPayload(t *testing.T) {
	setupDB(t)
	r := newAuthRouter()

	w := doJSON(r, http.MethodPost, "/easyPro/auth/register", "", gin.H{"fullName": "X", "email": "nope", "password": "123"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	db := setupDB(t)
	seedUser(t, db, "carol@example.com", "user")
	r := newAuthRouter()

	w := doJSON(r, http.MethodPost, "/easyPro/auth/login", "", gin.H{"email": "carol@example.com", "password": "wrong-password"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/easyPro/auth/login", "", gin.H{"email": "nobody@example.com", "password": "password123"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Invalid email or password", decode(t, w)["message"])
}

func TestUsers_MeAndAdminList(t *testing.T) {
	db := setupDB(t)
	alice, aliceToken := seedUser(t, db, "alice@example.com", "user")
	_, adminToken := seedUser(t, db, "admin@example.com", "admin")
	r := newAuthRouter()

	w := doJSON(r, http.MethodGet, "/easyPro/users/me", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, alice.ID, decode(t, w)["data"].(map[string]any)["id"])

	w = doJSON(r, http.MethodGet, "/easyPro/users", aliceToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodGet, "/easyPro/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 2, decode(t, w)["count"])
}
