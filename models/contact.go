package models

import (
	"time"
)

// Contact inquiry categories (closed set).
var ContactCategories = []string{
	"General Inquiry", "Partnership Opportunities", "Technical Support",
	"Feedback & Suggestions", "Billing & Orders", "Other",
}

// Contact ticket statuses.
var ContactStatuses = []string{"New", "In Progress", "Resolved", "Closed"}

// Contact ticket priorities.
var ContactPriorities = []string{"Low", "Medium", "High", "Urgent"}

// Contact represents a support inquiry submitted through the contact form.
// Independent of orders; purely a support ticket.
type Contact struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"not null" json:"name"`
	Email        string     `gorm:"not null;index" json:"email"`
	Phone        string     `json:"phone"`
	Category     string     `gorm:"not null;index" json:"category"`
	Subject      string     `gorm:"not null" json:"subject"`
	Message      string     `gorm:"type:text;not null" json:"message"`
	Status       string     `gorm:"not null;default:'New';index" json:"status"`
	Priority     string     `gorm:"not null;default:'Medium'" json:"priority"`
	AssignedToID *uint      `json:"assignedToId"`
	AssignedTo   *User      `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
	Response     string     `gorm:"type:text" json:"response"`
	RespondedAt  *time.Time `json:"respondedAt"`
	RespondedByID *uint     `json:"respondedById"`
	RespondedBy  *User      `gorm:"foreignKey:RespondedByID" json:"respondedBy,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// TableName specifies the table name for the Contact model
func (Contact) TableName() string {
	return "contacts"
}

// IsValidContactCategory reports whether category is a recognized inquiry category.
func IsValidContactCategory(category string) bool {
	return StringList(ContactCategories).Contains(category)
}

// IsValidContactStatus reports whether status is a recognized ticket status.
func IsValidContactStatus(status string) bool {
	return StringList(ContactStatuses).Contains(status)
}

// IsValidContactPriority reports whether priority is a recognized priority.
func IsValidContactPriority(priority string) bool {
	return StringList(ContactPriorities).Contains(priority)
}
