package model

import "time"

// DefaultStatus is the canonical status for newly created tickets.
const (
	DefaultStatus   = "To be done"
	DefaultPriority = "Low"
)

type Ticket struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `gorm:"size:20;default:'To be done'" json:"status"`
	Priority    string     `gorm:"size:10;default:'Low'" json:"priority"`
	AuthorID    *uint      `gorm:"index" json:"author_id"`
}
