package handlers

import (
	"errors"
	"log"
	"net/http"

	"easypro-api/internal/database"
	"easypro-api/internal/middleware"
	"easypro-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateReviewRequest scores a writer; every score is 1 to 5.
type CreateReviewRequest struct {
	FollowingInstructions int    `json:"followingInstructions" binding:"required,min=1,max=5"`
	Grammar               int    `json:"grammar" binding:"required,min=1,max=5"`
	ResponseSpeed         int    `json:"responseSpeed" binding:"required,min=1,max=5"`
	Formatting            int    `json:"formatting" binding:"required,min=1,max=5"`
	Other                 int    `json:"other" binding:"required,min=1,max=5"`
	WriterID              string `json:"writerId" binding:"required"`
	Description           string `json:"description"`
	Subject               string `json:"subject" binding:"required"`
	PaperType             string `json:"paperType" binding:"required"`
}

var errWriterNotFound = errors.New("writer not found")

// writerRating is the mean of the review averages for a writer.
func writerRating(tx *gorm.DB, writerID string) (float64, error) {
	var reviews []models.Review
	if err := tx.Where("writer_id = ?", writerID).Find(&reviews).Error; err != nil {
		return 0, err
	}
	if len(reviews) == 0 {
		return 0, nil
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Average()
	}
	return sum / float64(len(reviews)), nil
}

// CreateReview handles POST /easyPro/reviews
func CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "All scores must be between 1 and 5 and writerId, subject and paperType are required")
		return
	}

	review := models.Review{
		FollowingInstructions: req.FollowingInstructions,
		Grammar:               req.Grammar,
		ResponseSpeed:         req.ResponseSpeed,
		Formatting:            req.Formatting,
		Other:                 req.Other,
		WriterID:              req.WriterID,
		UserID:                c.GetString(middleware.ContextUserID),
		Description:           req.Description,
		Subject:               req.Subject,
		PaperType:             req.PaperType,
	}

	var rating float64
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		var writer models.Writer
		if err := tx.Where("id = ?", req.WriterID).First(&writer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errWriterNotFound
			}
			return err
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		var err error
		if rating, err = writerRating(tx, writer.ID); err != nil {
			return err
		}
		return tx.Model(&writer).UpdateColumn("rating", rating).Error
	})
	if err != nil {
		if errors.Is(err, errWriterNotFound) {
			fail(c, http.StatusNotFound, "Writer not found")
			return
		}
		log.Printf("create review: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to create review")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"message":      "Review created successfully",
		"data":         review,
		"writerRating": rating,
	})
}

// GetWriterReviews handles GET /easyPro/reviews/writer/:writerId
func GetWriterReviews(c *gin.Context) {
	var reviews []models.Review
	err := database.GetDB().
		Preload("User").
		Where("writer_id = ?", c.Param("writerId")).
		Order("created_at desc").
		Find(&reviews).Error
	if err != nil {
		log.Printf("list reviews for %s: %v", c.Param("writerId"), err)
		fail(c, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(reviews),
		"data":    reviews,
	})
}
