package handlers

import (
	"errors"
	"log"
	"math"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"easypro-api/internal/database"
	"easypro-api/internal/middleware"
	"easypro-api/internal/models"
	"easypro-api/internal/realtime"
	"easypro-api/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateOrderRequest is accepted as JSON or as a multipart form with
// uploaded files under "files".
type CreateOrderRequest struct {
	Type        models.OrderType `json:"type" form:"type"`
	Subject     string           `json:"subject" form:"subject"`
	PaperType   string           `json:"paperType" form:"paperType"`
	PageCount   int              `json:"pageCount" form:"pageCount"`
	Slides      *int             `json:"slides" form:"slides"`
	Software    string           `json:"software" form:"software"`
	Instruction string           `json:"instruction" form:"instruction"`
	Deadline    string           `json:"deadline" form:"deadline"`
	WriterID    string           `json:"writerId" form:"writerId"`
	Files       []string         `json:"files" form:"-"`
}

// UpdateOrderStatusRequest changes an order's status
type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Reason string             `json:"reason"`
}

// AssignWriterRequest assigns a writer to an order
type AssignWriterRequest struct {
	WriterID string `json:"writerId" binding:"required"`
}

var deadlineLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseDeadline(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// validateOrder applies the common and per-type rules. fileCount includes
// uploads that have not been stored yet.
func validateOrder(req *CreateOrderRequest, fileCount int, now time.Time) (time.Time, []string) {
	var errs []string

	if !req.Type.Valid() {
		errs = append(errs, "Order type must be writing, editing or technical")
	}
	if strings.TrimSpace(req.Subject) == "" {
		errs = append(errs, "Subject is required")
	}

	deadline, ok := time.Time{}, false
	switch {
	case strings.TrimSpace(req.Deadline) == "":
		errs = append(errs, "Deadline is required")
	default:
		deadline, ok = parseDeadline(req.Deadline)
		if !ok {
			errs = append(errs, "Deadline must be a valid date")
		} else if !deadline.After(now) {
			errs = append(errs, "Deadline must be in the future")
		}
	}

	switch req.Type {
	case models.OrderWriting:
		if strings.TrimSpace(req.PaperType) == "" {
			errs = append(errs, "Paper type is required for writing orders")
		}
		if req.PageCount < 1 {
			errs = append(errs, "Page count must be at least 1")
		}
	case models.OrderEditing:
		if fileCount == 0 {
			errs = append(errs, "At least one file is required for editing orders")
		}
		if req.PageCount < 1 {
			errs = append(errs, "Page count must be at least 1")
		}
	case models.OrderTechnical:
		if strings.TrimSpace(req.Software) == "" {
			errs = append(errs, "Software is required for technical orders")
		}
		if strings.TrimSpace(req.WriterID) == "" {
			errs = append(errs, "Writer is required for technical orders")
		}
	}
	return deadline, errs
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

func uploadedFiles(c *gin.Context, field string) []*multipart.FileHeader {
	if !isMultipart(c) {
		return nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	if files := form.File[field]; len(files) > 0 {
		return files
	}
	return form.File[field+"[]"]
}

// CreateOrder handles POST /easyPro/orders
func CreateOrder(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req CreateOrderRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid order payload")
		return
	}
	uploads := uploadedFiles(c, "files")

	deadline, errs := validateOrder(&req, len(req.Files)+len(uploads), time.Now())
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  errs,
		})
		return
	}

	db := database.GetDB()
	order := models.Order{
		Type:        req.Type,
		Subject:     strings.TrimSpace(req.Subject),
		Instruction: req.Instruction,
		Deadline:    deadline,
		UserID:      userID,
	}
	switch req.Type {
	case models.OrderWriting:
		order.PaperType = req.PaperType
		order.PageCount = req.PageCount
		order.Slides = req.Slides
	case models.OrderEditing:
		order.PageCount = req.PageCount
	case models.OrderTechnical:
		var writer models.Writer
		if err := db.Where("id = ?", req.WriterID).First(&writer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fail(c, http.StatusNotFound, "Writer not found")
			} else {
				log.Printf("create order: load writer %s: %v", req.WriterID, err)
				fail(c, http.StatusInternalServerError, "Failed to create order")
			}
			return
		}
		order.Software = req.Software
		order.WriterID = &writer.ID
		order.Status = models.OrderPending
	}

	files := append([]string{}, req.Files...)
	if len(uploads) > 0 {
		urls, err := storage.UploadFiles(c.Request.Context(), storage.GetUploader(), uploads, storage.FolderOrders)
		if err != nil {
			log.Printf("create order: upload files: %v", err)
			fail(c, http.StatusInternalServerError, "Failed to upload files")
			return
		}
		files = append(files, urls...)
	}
	order.Files = files

	if err := db.Create(&order).Error; err != nil {
		log.Printf("create order: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to create order")
		return
	}

	realtime.GetHub().Publish(realtime.EventOrderCreated, order.ID, userID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order created successfully",
		"data":    order,
	})
}

// GetOrdersByUser handles GET /easyPro/orders/user/:userId
// Optional query params: status, type, page (default 1), limit (default 10).
func GetOrdersByUser(c *gin.Context) {
	targetID := c.Param("userId")
	if targetID != c.GetString(middleware.ContextUserID) && c.GetString(middleware.ContextRole) != string(models.RoleAdmin) {
		fail(c, http.StatusForbidden, "Not authorized to view these orders")
		return
	}

	page := queryInt(c, "page", 1, 0)
	limit := queryInt(c, "limit", 10, 100)

	query := database.GetDB().Model(&models.Order{}).Where("user_id = ?", targetID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if orderType := c.Query("type"); orderType != "" {
		query = query.Where("type = ?", orderType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("list orders: count: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	var orders []models.Order
	err := query.Session(&gorm.Session{}).
		Preload("Writer").
		Order("created_at desc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&orders).Error
	if err != nil {
		log.Printf("list orders: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"pagination": gin.H{
			"currentPage": page,
			"totalPages":  totalPages,
			"totalOrders": total,
			"hasNext":     page < totalPages,
			"hasPrev":     page > 1,
		},
	})
}

// loadOrder fetches an order by the :orderId param, answering 404/500 itself.
func loadOrder(c *gin.Context, preload ...string) (*models.Order, bool) {
	query := database.GetDB()
	for _, p := range preload {
		query = query.Preload(p)
	}
	var order models.Order
	if err := query.Where("id = ?", c.Param("orderId")).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Order not found")
		} else {
			log.Printf("load order %s: %v", c.Param("orderId"), err)
			fail(c, http.StatusInternalServerError, "Failed to fetch order")
		}
		return nil, false
	}
	return &order, true
}

// GetOrderByID handles GET /easyPro/orders/:orderId
func GetOrderByID(c *gin.Context) {
	order, ok := loadOrder(c, "Writer", "User")
	if !ok {
		return
	}
	if order.UserID != c.GetString(middleware.ContextUserID) && c.GetString(middleware.ContextRole) != string(models.RoleAdmin) {
		fail(c, http.StatusForbidden, "Not authorized to view this order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

// UpdateOrderStatus handles PATCH /easyPro/orders/:orderId/status (admin)
func UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Valid() {
		fail(c, http.StatusBadRequest, "Invalid status")
		return
	}

	order, ok := loadOrder(c)
	if !ok {
		return
	}
	order.Status = req.Status
	order.StatusReason = strings.TrimSpace(req.Reason)

	if err := database.GetDB().Save(order).Error; err != nil {
		log.Printf("update order status %s: %v", order.ID, err)
		fail(c, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	realtime.GetHub().Publish(realtime.EventOrderStatusChanged, order.ID, order.UserID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order status updated",
		"data":    order,
	})
}

// AssignWriter handles PATCH /easyPro/orders/:orderId/assign (admin)
func AssignWriter(c *gin.Context) {
	var req AssignWriterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "writerId is required")
		return
	}

	order, ok := loadOrder(c)
	if !ok {
		return
	}

	db := database.GetDB()
	var writer models.Writer
	if err := db.Where("id = ?", req.WriterID).First(&writer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Writer not found")
		} else {
			log.Printf("assign writer: load %s: %v", req.WriterID, err)
			fail(c, http.StatusInternalServerError, "Failed to assign writer")
		}
		return
	}

	order.WriterID = &writer.ID
	order.Status = models.OrderPending
	if err := db.Save(order).Error; err != nil {
		log.Printf("assign writer %s to %s: %v", writer.ID, order.ID, err)
		fail(c, http.StatusInternalServerError, "Failed to assign writer")
		return
	}

	order.Writer = &writer

	realtime.GetHub().Publish(realtime.EventWriterAssigned, order.ID, order.UserID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Writer assigned successfully",
		"data":    order,
	})
}
