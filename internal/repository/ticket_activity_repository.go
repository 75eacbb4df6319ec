package repository

import (
	"fmt"

	"gorm.io/gorm"

	"tickettrack/internal/model"
)

type TicketActivityRepository struct {
	db *gorm.DB
}

func NewTicketActivityRepository(db *gorm.DB) *TicketActivityRepository {
	return &TicketActivityRepository{db: db}
}

func (r *TicketActivityRepository) Create(activity *model.TicketActivity) error {
	if err := r.db.Create(activity).Error; err != nil {
		return fmt.Errorf("create ticket activity failed: %w", err)
	}
	return nil
}

func (r *TicketActivityRepository) ListByTicketID(ticketID uint) ([]model.TicketActivity, error) {
	activities := make([]model.TicketActivity, 0)
	if err := r.db.Where("ticket_id = ?", ticketID).Order("id").Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("list ticket activities failed: %w", err)
	}
	return activities, nil
}
