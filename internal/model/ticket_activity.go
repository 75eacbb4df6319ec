package model

import "time"

// Actions recorded in the ticket audit trail.
const (
	ActivityCreated = "created"
	ActivityUpdated = "updated"
	ActivityDeleted = "deleted"
)

type TicketActivity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TicketID  uint      `gorm:"not null;index" json:"ticket_id"`
	Action    string    `gorm:"size:16;not null" json:"action"`
	ActorID   *uint     `json:"actor_id"`
	Detail    string    `gorm:"size:255" json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
