package models

import (
	"time"

	"gorm.io/gorm"
)

// Review represents a user's scored feedback on a writer
type Review struct {
	ID                    string    `json:"id" gorm:"primaryKey"`
	FollowingInstructions int       `json:"followingInstructions" gorm:"not null"`
	Grammar               int       `json:"grammar" gorm:"not null"`
	ResponseSpeed         int       `json:"responseSpeed" gorm:"not null"`
	Formatting            int       `json:"formatting" gorm:"not null"`
	Other                 int       `json:"other" gorm:"not null"`
	WriterID              string    `json:"writerId" gorm:"column:writer_id;not null;index"`
	Writer                *Writer   `json:"writer,omitempty" gorm:"foreignKey:WriterID"`
	UserID                string    `json:"userId" gorm:"column:user_id;not null;index"`
	User                  *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Description           string    `json:"description"`
	Subject               string    `json:"subject" gorm:"not null"`
	PaperType             string    `json:"paperType" gorm:"column:paper_type;not null"`
	CreatedAt             time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Review Model
func (Review) TableName() string {
	return "reviews"
}

// BeforeCreate assigns an ID.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	r.ID = ensureID(r.ID)
	return nil
}

// Average is the mean of the five scores.
func (r Review) Average() float64 {
	sum := r.FollowingInstructions + r.Grammar + r.ResponseSpeed + r.Formatting + r.Other
	return float64(sum) / 5
}
