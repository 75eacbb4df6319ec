package model

import "time"

type User struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Name             string     `gorm:"size:100;not null" json:"name"`
	Email            string     `gorm:"size:100;not null;uniqueIndex" json:"email"`
	PasswordHash     string     `gorm:"size:255;not null" json:"-"`
	Image            string     `gorm:"size:100" json:"image,omitempty"`
	ResetToken       string     `gorm:"size:100" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	Active           bool       `gorm:"default:true" json:"active"`

	Tickets []Ticket `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"-"`
}
