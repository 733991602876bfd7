package models

import (
	"time"
)

type Category struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:varchar(255)" json:"description"`
	Color       string    `gorm:"type:varchar(7);not null;default:'#3498db'" json:"color"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Tasks []Task `gorm:"foreignKey:CategoryID" json:"-"`
}
