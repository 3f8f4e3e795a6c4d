package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderType represents the kind of work requested
type OrderType string

const (
	OrderWriting   OrderType = "writing"
	OrderEditing   OrderType = "editing"
	OrderTechnical OrderType = "technical"
)

// Valid reports whether t is a known order type.
func (t OrderType) Valid() bool {
	switch t {
	case OrderWriting, OrderEditing, OrderTechnical:
		return true
	}
	return false
}

// OrderStatus represents where an order is in its lifecycle
type OrderStatus string

const (
	OrderCompleted  OrderStatus = "completed"
	OrderPending    OrderStatus = "pending"
	OrderUnassigned OrderStatus = "unassigned"
	OrderCancel     OrderStatus = "cancel"
	OrderExpired    OrderStatus = "expired"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderCompleted, OrderPending, OrderUnassigned, OrderCancel, OrderExpired:
		return true
	}
	return false
}

// Order represents a client's work order
type Order struct {
	ID           string      `json:"id" gorm:"primaryKey"`
	Type         OrderType   `json:"type" gorm:"not null;index"`
	Subject      string      `json:"subject" gorm:"not null"`
	PaperType    string      `json:"paperType,omitempty" gorm:"column:paper_type"`
	PageCount    int         `json:"pageCount,omitempty" gorm:"column:page_count"`
	Slides       *int        `json:"slides,omitempty"`
	Software     string      `json:"software,omitempty"`
	Status       OrderStatus `json:"status" gorm:"not null;default:'unassigned';index"`
	StatusReason string      `json:"statusReason,omitempty" gorm:"column:status_reason"`
	Files        []string    `json:"files" gorm:"serializer:json"`
	Instruction  string      `json:"instruction"`
	Deadline     time.Time   `json:"deadline" gorm:"not null"`
	WriterID     *string     `json:"writerId,omitempty" gorm:"column:writer_id;index"`
	Writer       *Writer     `json:"writer,omitempty" gorm:"foreignKey:WriterID"`
	UserID       string      `json:"userId" gorm:"column:user_id;not null;index"`
	User         *User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt    time.Time   `json:"createdAt" gorm:"index"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// TableName specifies the table name for Order Model
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate assigns an ID and the default status.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	o.ID = ensureID(o.ID)
	if o.Status == "" {
		o.Status = OrderUnassigned
	}
	if o.Files == nil {
		o.Files = []string{}
	}
	return nil
}
