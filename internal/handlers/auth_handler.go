package handlers

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

// RegisterRequest represents the registration payload
type RegisterRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /easyPro/auth/register
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Full name, a valid email and a password of at least 6 characters are required")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	db := database.GetDB()
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		fail(c, http.StatusBadRequest, "User already exists")
		return
	case !errors.Is(err, gorm.ErrRecordNotFound):
		log.Printf("register: lookup %s: %v", email, err)
		fail(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("register: hash password: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	user := models.User{
		FullName: strings.TrimSpace(req.FullName),
		Email:    email,
		Password: hash,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Printf("register: create %s: %v", email, err)
		fail(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// Login handles POST /easyPro/auth/login
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	var user models.User
	err := database.GetDB().Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("login: lookup: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to log in")
		return
	}
	if err != nil || !auth.CheckPassword(user.Password, req.Password) {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}
