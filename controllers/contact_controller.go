package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/breakfast4u/breakfast4u-api/config"
	"github.com/breakfast4u/breakfast4u-api/middleware"
	"github.com/breakfast4u/breakfast4u-api/models"
	"github.com/breakfast4u/breakfast4u-api/services"
	"github.com/breakfast4u/breakfast4u-api/utils"
)

const defaultContactPageSize = 10

// SubmitContactRequest represents the public contact form body
type SubmitContactRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"omitempty,len=10"`
	Category string `json:"category" binding:"required"`
	Subject  string `json:"subject" binding:"required,min=5,max=100"`
	Message  string `json:"message" binding:"required,min=10,max=1000"`
}

// UpdateContactRequest represents the admin update body for a ticket
type UpdateContactRequest struct {
	Status       string `json:"status"`
	Priority     string `json:"priority"`
	AssignedToID *uint  `json:"assignedToId"`
	Response     string `json:"response"`
}

// SubmitContactForm handles POST /api/contact - public submission of a
// support inquiry. The ticket is stored even when notification emails fail.
func SubmitContactForm(c *gin.Context) {
	var req SubmitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	if !models.IsValidContactCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please select a valid category"})
		return
	}

	contact := models.Contact{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Category: req.Category,
		Subject:  req.Subject,
		Message:  req.Message,
		Status:   "New",
		Priority: "Medium",
	}

	if err := config.GetDB().Create(&contact).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	// Both emails are best-effort; the ticket is already stored.
	if mailer := services.GetMailer(); mailer != nil {
		subject, body := services.ContactConfirmationEmail(contact.Name, contact.Subject)
		if err := mailer.Send(contact.Email, subject, body); err != nil {
			log.Printf("Contact confirmation email failed: %v", err)
		}

		if adminEmail := config.GetConfig().AdminEmail; adminEmail != "" {
			subject, body := services.AdminContactNotificationEmail(contact.Name, contact.Email, contact.Phone, contact.Category, contact.Subject, contact.Message)
			if err := mailer.Send(adminEmail, subject, body); err != nil {
				log.Printf("Admin contact notification email failed: %v", err)
			}
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Your message has been received. We will get back to you soon!",
		"data":    contact,
	})
}

// GetContactMessages handles GET /api/contact - admin listing with filters
// and per-status counts
func GetContactMessages(c *gin.Context) {
	db := config.GetDB()
	p := utils.ParsePagination(c, defaultContactPageSize)

	query := db.Model(&models.Contact{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(subject) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	var messages []models.Contact
	if err := query.
		Preload("AssignedTo").Preload("RespondedBy").
		Order("created_at DESC").
		Offset(p.Skip).Limit(p.Limit).
		Find(&messages).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	// Status counts ignore the filters; they describe the whole queue.
	statusCounts := gin.H{}
	for _, status := range models.ContactStatuses {
		var count int64
		if err := db.Model(&models.Contact{}).Where("status = ?", status).Count(&count).Error; err != nil {
			handleServiceError(c, err)
			return
		}
		statusCounts[status] = count
	}

	response := utils.ListResponse(p, len(messages), total, messages)
	response["statusCounts"] = statusCounts
	c.JSON(http.StatusOK, response)
}

// GetContactMessage handles GET /api/contact/:id - admin only
func GetContactMessage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var contact models.Contact
	if err := config.GetDB().
		Preload("AssignedTo").Preload("RespondedBy").
		First(&contact, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Contact message not found"})
			return
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    contact,
	})
}

// UpdateContactMessage handles PUT /api/contact/:id - admin triage and
// response. Setting a response stamps who answered and when, and emails the
// submitter best-effort.
func UpdateContactMessage(c *gin.Context) {
	admin, err := middleware.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized to access this route"})
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	db := config.GetDB()

	var contact models.Contact
	if err := db.First(&contact, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Contact message not found"})
			return
		}
		handleServiceError(c, err)
		return
	}

	if req.Status != "" {
		if !models.IsValidContactStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status"})
			return
		}
		contact.Status = req.Status
	}
	if req.Priority != "" {
		if !models.IsValidContactPriority(req.Priority) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid priority"})
			return
		}
		contact.Priority = req.Priority
	}
	if req.AssignedToID != nil {
		contact.AssignedToID = req.AssignedToID
	}

	respondedNow := false
	if req.Response != "" {
		contact.Response = req.Response
		now := time.Now()
		contact.RespondedAt = &now
		contact.RespondedByID = &admin.ID
		respondedNow = true
	}

	if err := db.Save(&contact).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	if respondedNow {
		if mailer := services.GetMailer(); mailer != nil {
			subject, body := services.ContactResponseEmail(contact.Name, contact.Subject, contact.Message, contact.Response)
			if err := mailer.Send(contact.Email, subject, body); err != nil {
				log.Printf("Contact response email failed: %v", err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Contact message updated successfully",
		"data":    contact,
	})
}

// DeleteContactMessage handles DELETE /api/contact/:id - admin hard delete
func DeleteContactMessage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()

	var contact models.Contact
	if err := db.First(&contact, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Contact message not found"})
			return
		}
		handleServiceError(c, err)
		return
	}

	if err := db.Delete(&contact).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Contact message deleted successfully",
	})
}
