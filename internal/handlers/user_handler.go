package handlers

import (
	"log"
	"net/http"

	"easypro-api/internal/database"
	"easypro-api/internal/middleware"
	"easypro-api/internal/models"

	"github.com/gin-gonic/gin"
)

// GetMe returns the authenticated user
// GET /easyPro/users/me
func GetMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Not authorized")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// GetAllUsers returns all users (admin)
// GET /easyPro/users
func GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := database.GetDB().Order("created_at desc").Find(&users).Error; err != nil {
		log.Printf("list users: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(users),
		"data":    users,
	})
}
