package models

import "time"

// TodoCategory links a todo to one of its owner's categories. The composite
// primary key guarantees a given pair exists at most once.
type TodoCategory struct {
	TodoID     uint64    `gorm:"primarykey" json:"todo_id"`
	CategoryID uint64    `gorm:"primarykey" json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Todo     Todo     `gorm:"foreignKey:TodoID" json:"-"`
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
