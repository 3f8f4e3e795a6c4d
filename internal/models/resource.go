package models

import (
	"time"

	"gorm.io/gorm"
)

// ResourceType represents the media kind of a resource
type ResourceType string

const (
	ResourceImage        ResourceType = "image"
	ResourceVideo        ResourceType = "video"
	ResourcePDF          ResourceType = "pdf"
	ResourcePresentation ResourceType = "presentation"
	ResourceOther        ResourceType = "other"
)

// Valid reports whether t is a known resource type.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceImage, ResourceVideo, ResourcePDF, ResourcePresentation, ResourceOther:
		return true
	}
	return false
}

// Resource represents study material published by a writer
type Resource struct {
	ID          string       `json:"id" gorm:"primaryKey"`
	Title       string       `json:"title" gorm:"not null"`
	Subject     string       `json:"subject"`
	Description string       `json:"description" gorm:"not null"`
	Type        ResourceType `json:"type" gorm:"not null;index"`
	Tags        []string     `json:"tags" gorm:"serializer:json"`
	Link        string       `json:"link" gorm:"not null"`
	Views       int          `json:"views" gorm:"not null;default:0"`
	WriterID    string       `json:"writerId" gorm:"column:writer_id;not null;index"`
	Writer      *Writer      `json:"author,omitempty" gorm:"foreignKey:WriterID"`
	CreatedAt   time.Time    `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TableName specifies the table name for Resource Model
func (Resource) TableName() string {
	return "resources"
}

// BeforeCreate assigns an ID.
func (r *Resource) BeforeCreate(tx *gorm.DB) error {
	r.ID = ensureID(r.ID)
	if r.Tags == nil {
		r.Tags = []string{}
	}
	return nil
}
