package models

import (
	"time"

	"gorm.io/gorm"
)

// Skill is one area of expertise on a writer profile
type Skill struct {
	Skill      string `json:"skill"`
	Experience string `json:"experience"`
}

// Education is one qualification on a writer profile
type Education struct {
	Qualification string `json:"qualification"`
	Place         string `json:"place"`
	StartYear     int    `json:"startYear"`
	EndYear       int    `json:"endYear"`
	Grade         string `json:"grade"`
}

// Writer represents a writer that orders can be assigned to
type Writer struct {
	ID           string      `json:"id" gorm:"primaryKey"`
	FullName     string      `json:"fullName" gorm:"uniqueIndex;not null"`
	Email        string      `json:"email" gorm:"uniqueIndex;not null"`
	Skills       []Skill     `json:"skills" gorm:"serializer:json"`
	FamiliarWith []string    `json:"familiarWith" gorm:"serializer:json"`
	Education    []Education `json:"education" gorm:"serializer:json"`
	Bio          string      `json:"bio"`
	ProfilePic   string      `json:"profilePic,omitempty"`
	Rating       float64     `json:"rating"`
	CreatedAt    time.Time   `json:"createdAt" gorm:"index"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// TableName specifies the table name for Writer Model
func (Writer) TableName() string {
	return "writers"
}

// BeforeCreate assigns an ID.
func (w *Writer) BeforeCreate(tx *gorm.DB) error {
	w.ID = ensureID(w.ID)
	return nil
}
