package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"easypro-api/internal/database"
	"easypro-api/internal/models"
	"easypro-api/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// WriterRequest carries writer fields for create and update. Nil fields are
// left untouched on update. Multipart forms send the nested fields as JSON
// strings.
type WriterRequest struct {
	FullName     *string             `json:"fullName"`
	Email        *string             `json:"email"`
	Skills       *[]models.Skill     `json:"skills"`
	FamiliarWith *[]string           `json:"familiarWith"`
	Education    *[]models.Education `json:"education"`
	Bio          *string             `json:"bio"`
}

func bindWriterRequest(c *gin.Context) (*WriterRequest, error) {
	var req WriterRequest
	if !isMultipart(c) {
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	if v, ok := c.GetPostForm("fullName"); ok {
		req.FullName = &v
	}
	if v, ok := c.GetPostForm("email"); ok {
		req.Email = &v
	}
	if v, ok := c.GetPostForm("bio"); ok {
		req.Bio = &v
	}
	if v, ok := c.GetPostForm("skills"); ok {
		var skills []models.Skill
		if err := json.Unmarshal([]byte(v), &skills); err != nil {
			return nil, err
		}
		req.Skills = &skills
	}
	if v, ok := c.GetPostForm("education"); ok {
		var education []models.Education
		if err := json.Unmarshal([]byte(v), &education); err != nil {
			return nil, err
		}
		req.Education = &education
	}
	if v, ok := c.GetPostForm("familiarWith"); ok {
		familiar, err := parseStringList(v)
		if err != nil {
			return nil, err
		}
		req.FamiliarWith = &familiar
	}
	return &req, nil
}

func (r *WriterRequest) apply(w *models.Writer) {
	if r.FullName != nil {
		w.FullName = strings.TrimSpace(*r.FullName)
	}
	if r.Email != nil {
		w.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	if r.Skills != nil {
		w.Skills = *r.Skills
	}
	if r.FamiliarWith != nil {
		w.FamiliarWith = compactStrings(*r.FamiliarWith)
	}
	if r.Education != nil {
		w.Education = *r.Education
	}
	if r.Bio != nil {
		w.Bio = *r.Bio
	}
}

// writerTaken reports whether another writer already uses the name or email.
func writerTaken(db *gorm.DB, w *models.Writer) (bool, error) {
	query := db.Model(&models.Writer{}).Where("(full_name = ? OR email = ?)", w.FullName, w.Email)
	if w.ID != "" {
		query = query.Where("id <> ?", w.ID)
	}
	var n int64
	err := query.Count(&n).Error
	return n > 0, err
}

// uploadProfilePic stores an optional "profilePic" upload and returns its URL.
func uploadProfilePic(c *gin.Context) (string, error) {
	files := uploadedFiles(c, "profilePic")
	if len(files) == 0 {
		return "", nil
	}
	return storage.UploadFile(c.Request.Context(), storage.GetUploader(), files[0], storage.FolderImages)
}

// GetWriters handles GET /easyPro/writers
func GetWriters(c *gin.Context) {
	var writers []models.Writer
	if err := database.GetDB().Order("created_at desc").Find(&writers).Error; err != nil {
		log.Printf("list writers: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch writers")
		return
	}
	if len(writers) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "No writers found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(writers),
		"data":    writers,
	})
}

func loadWriter(c *gin.Context) (*models.Writer, bool) {
	var writer models.Writer
	if err := database.GetDB().Where("id = ?", c.Param("id")).First(&writer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Writer not found")
		} else {
			log.Printf("load writer %s: %v", c.Param("id"), err)
			fail(c, http.StatusInternalServerError, "Failed to fetch writer")
		}
		return nil, false
	}
	return &writer, true
}

// GetWriter handles GET /easyPro/writers/:id
func GetWriter(c *gin.Context) {
	writer, ok := loadWriter(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": writer})
}

// CreateWriter handles POST /easyPro/writers
func CreateWriter(c *gin.Context) {
	req, err := bindWriterRequest(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid writer payload")
		return
	}

	var writer models.Writer
	req.apply(&writer)
	if writer.FullName == "" || writer.Email == "" {
		fail(c, http.StatusBadRequest, "Full name and email are required")
		return
	}

	db := database.GetDB()
	taken, err := writerTaken(db, &writer)
	if err != nil {
		log.Printf("create writer: duplicate check: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to create writer")
		return
	}
	if taken {
		fail(c, http.StatusConflict, "Writer with this name or email already exists")
		return
	}

	pic, err := uploadProfilePic(c)
	if err != nil {
		log.Printf("create writer: upload profile picture: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to upload profile picture")
		return
	}
	writer.ProfilePic = pic

	if err := db.Create(&writer).Error; err != nil {
		log.Printf("create writer: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to create writer")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Writer created successfully",
		"data":    writer,
	})
}

// UpdateWriter handles PUT /easyPro/writers/:id
func UpdateWriter(c *gin.Context) {
	writer, ok := loadWriter(c)
	if !ok {
		return
	}
	req, err := bindWriterRequest(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid writer payload")
		return
	}
	req.apply(writer)
	if writer.FullName == "" || writer.Email == "" {
		fail(c, http.StatusBadRequest, "Full name and email cannot be empty")
		return
	}

	db := database.GetDB()
	taken, err := writerTaken(db, writer)
	if err != nil {
		log.Printf("update writer: duplicate check: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to update writer")
		return
	}
	if taken {
		fail(c, http.StatusConflict, "Writer with this name or email already exists")
		return
	}

	pic, err := uploadProfilePic(c)
	if err != nil {
		log.Printf("update writer: upload profile picture: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to upload profile picture")
		return
	}
	if pic != "" {
		writer.ProfilePic = pic
	}

	if err := db.Save(writer).Error; err != nil {
		log.Printf("update writer %s: %v", writer.ID, err)
		fail(c, http.StatusInternalServerError, "Failed to update writer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Writer updated successfully",
		"data":    writer,
	})
}

// DeleteWriter handles DELETE /easyPro/writers/:id
func DeleteWriter(c *gin.Context) {
	writer, ok := loadWriter(c)
	if !ok {
		return
	}
	if err := database.GetDB().Delete(writer).Error; err != nil {
		log.Printf("delete writer %s: %v", writer.ID, err)
		fail(c, http.StatusInternalServerError, "Failed to delete writer")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Writer deleted successfully",
	})
}
