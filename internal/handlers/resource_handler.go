package handlers

import (
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

var resourceSortColumns = map[string]string{
	"createdAt": "resources.created_at",
	"updatedAt": "resources.updated_at",
	"views":     "resources.views",
	"title":     "resources.title",
}

// GetResources handles GET /easyPro/resources
// Query params: search, type, subject, sort (default createdAt), order
// (default desc), page (default 1), limit (default 12).
func GetResources(c *gin.Context) {
	page := queryInt(c, "page", 1, 0)
	limit := queryInt(c, "limit", 12, 100)

	sortColumn, ok := resourceSortColumns[c.DefaultQuery("sort", "createdAt")]
	if !ok {
		sortColumn = resourceSortColumns["createdAt"]
	}
	direction := "desc"
	if strings.ToLower(c.Query("order")) == "asc" {
		direction = "asc"
	}

	query := database.GetDB().Model(&models.Resource{}).
		Joins("LEFT JOIN writers ON writers.id = resources.writer_id")
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"resources.title LIKE ? OR resources.subject LIKE ? OR resources.tags LIKE ? OR writers.full_name LIKE ? OR writers.email LIKE ?",
			like, like, like, like, like,
		)
	}
	if t := c.Query("type"); t != "" {
		query = query.Where("resources.type = ?", t)
	}
	if subject := strings.TrimSpace(c.Query("subject")); subject != "" {
		query = query.Where("resources.subject LIKE ?", "%"+subject+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("list resources: count: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch resources")
		return
	}

	var resources []models.Resource
	err := query.Session(&gorm.Session{}).
		Select("resources.*").
		Preload("Writer").
		Order(sortColumn + " " + direction).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&resources).Error
	if err != nil {
		log.Printf("list resources: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch resources")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(resources),
		"totalCount": total,
		"resources":  resources,
	})
}

func loadResource(c *gin.Context) (*models.Resource, bool) {
	var resource models.Resource
	if err := database.GetDB().Preload("Writer").Where("id = ?", c.Param("id")).First(&resource).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Resource not found")
		} else {
			log.Printf("load resource %s: %v", c.Param("id"), err)
			fail(c, http.StatusInternalServerError, "Failed to fetch resource")
		}
		return nil, false
	}
	return &resource, true
}

// GetResource handles GET /easyPro/resources/:id and counts the view.
func GetResource(c *gin.Context) {
	resource, ok := loadResource(c)
	if !ok {
		return
	}
	err := database.GetDB().Model(&models.Resource{}).
		Where("id = ?", resource.ID).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	if err != nil {
		log.Printf("count resource view %s: %v", resource.ID, err)
	} else {
		resource.Views++
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": resource})
}

// applyResourceForm copies the multipart fields that are present onto r.
func applyResourceForm(c *gin.Context, r *models.Resource) error {
	if v, ok := c.GetPostForm("title"); ok {
		r.Title = strings.TrimSpace(v)
	}
	if v, ok := c.GetPostForm("subject"); ok {
		r.Subject = strings.TrimSpace(v)
	}
	if v, ok := c.GetPostForm("description"); ok {
		r.Description = strings.TrimSpace(v)
	}
	if v, ok := c.GetPostForm("type"); ok {
		r.Type = models.ResourceType(strings.TrimSpace(v))
	}
	if v, ok := c.GetPostForm("writerId"); ok {
		r.WriterID = strings.TrimSpace(v)
	}
	if v, ok := c.GetPostForm("tags"); ok {
		tags, err := parseStringList(v)
		if err != nil {
			return err
		}
		r.Tags = tags
	}
	return nil
}

func validateResource(r *models.Resource) string {
	switch {
	case r.Title == "":
		return "Title is required"
	case r.Description == "":
		return "Description is required"
	case !r.Type.Valid():
		return "Type must be image, video, pdf, presentation or other"
	case r.WriterID == "":
		return "Author (writerId) is required"
	}
	return ""
}

// resourceAuthor loads the writer a resource points at, answering 404/500 itself.
func resourceAuthor(c *gin.Context, writerID string) (*models.Writer, bool) {
	var writer models.Writer
	if err := database.GetDB().Where("id = ?", writerID).First(&writer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Writer not found")
		} else {
			log.Printf("load resource author %s: %v", writerID, err)
			fail(c, http.StatusInternalServerError, "Failed to save resource")
		}
		return nil, false
	}
	return &writer, true
}

// CreateResource handles POST /easyPro/resources (admin, multipart)
func CreateResource(c *gin.Context) {
	var resource models.Resource
	if err := applyResourceForm(c, &resource); err != nil {
		fail(c, http.StatusBadRequest, "Tags must be a JSON array or a comma separated list")
		return
	}
	if msg := validateResource(&resource); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}
	files := uploadedFiles(c, "file")
	if len(files) == 0 {
		fail(c, http.StatusBadRequest, "File is required")
		return
	}
	writer, ok := resourceAuthor(c, resource.WriterID)
	if !ok {
		return
	}

	link, err := storage.UploadFile(c.Request.Context(), storage.GetUploader(), files[0], storage.FolderResources)
	if err != nil {
		log.Printf("create resource: upload: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to upload file")
		return
	}
	resource.Link = link

	if err := database.GetDB().Create(&resource).Error; err != nil {
		log.Printf("create resource: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to create resource")
		return
	}
	resource.Writer = writer

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Resource created successfully",
		"data":    resource,
	})
}

// UpdateResource handles PUT /easyPro/resources/:id (admin, multipart; file optional)
func UpdateResource(c *gin.Context) {
	resource, ok := loadResource(c)
	if !ok {
		return
	}
	if err := applyResourceForm(c, resource); err != nil {
		fail(c, http.StatusBadRequest, "Tags must be a JSON array or a comma separated list")
		return
	}
	if msg := validateResource(resource); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}
	writer, ok := resourceAuthor(c, resource.WriterID)
	if !ok {
		return
	}

	if files := uploadedFiles(c, "file"); len(files) > 0 {
		link, err := storage.UploadFile(c.Request.Context(), storage.GetUploader(), files[0], storage.FolderResources)
		if err != nil {
			log.Printf("update resource: upload: %v", err)
			fail(c, http.StatusInternalServerError, "Failed to upload file")
			return
		}
		resource.Link = link
	}

	resource.Writer = nil
	if err := database.GetDB().Save(resource).Error; err != nil {
		log.Printf("update resource %s: %v", resource.ID, err)
		fail(c, http.StatusInternalServerError, "Failed to update resource")
		return
	}
	resource.Writer = writer

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Resource updated successfully",
		"data":    resource,
	})
}

// DeleteResource handles DELETE /easyPro/resources/:id (admin)
func DeleteResource(c *gin.Context) {
	resource, ok := loadResource(c)
	if !ok {
		return
	}
	if err := database.GetDB().Delete(&models.Resource{}, "id = ?", resource.ID).Error; err != nil {
		log.Printf("delete resource %s: %v", resource.ID, err)
		fail(c, http.StatusInternalServerError, "Failed to delete resource")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Resource deleted successfully",
	})
}
