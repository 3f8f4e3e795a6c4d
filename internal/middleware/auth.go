package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"easypro-api/internal/auth"
	"easypro-api/internal/database"
	"easypro-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Context keys set by Protect.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextUser   = "user"
)

// Protect validates the bearer token, loads the user it names and, for
// RoleAdmin, requires the user to be an admin.
// Failures answer 401 (missing or bad token), 404 (user gone) or 403 (not admin).
func Protect(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			abort(c, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		var user models.User
		if err := database.GetDB().Where("id = ?", claims.UserID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abort(c, http.StatusNotFound, "User not found")
			} else {
				log.Printf("auth: load user %s: %v", claims.UserID, err)
				abort(c, http.StatusInternalServerError, "Failed to load user")
			}
			return
		}

		if role == models.RoleAdmin && !user.IsAdmin() {
			abort(c, http.StatusForbidden, "Not authorized as an admin")
			return
		}

		// Store user info in context for use in handlers
		c.Set(ContextUserID, user.ID)
		c.Set(ContextRole, string(user.Role))
		c.Set(ContextUser, &user)

		c.Next()
	}
}

// ProtectUser allows any authenticated user.
func ProtectUser() gin.HandlerFunc { return Protect(models.RoleUser) }

// ProtectAdmin allows admins only.
func ProtectAdmin() gin.HandlerFunc { return Protect(models.RoleAdmin) }

// CurrentUser returns the user loaded by Protect.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}

func bearerToken(c *gin.Context) string {
	// Extract token from "Bearer <token>"
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	// Fallback for WebSocket/browser where custom headers cannot be set: allow token in query param
	return c.Query("token")
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}
