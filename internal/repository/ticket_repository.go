package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tickettrack/internal/model"
)

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ticket *model.Ticket) error {
	if err := r.db.Create(ticket).Error; err != nil {
		return fmt.Errorf("create ticket failed: %w", err)
	}
	return nil
}

func (r *TicketRepository) List() ([]model.Ticket, error) {
	var tickets []model.Ticket
	if err := r.db.Order("id").Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("list tickets failed: %w", err)
	}
	return tickets, nil
}

func (r *TicketRepository) GetByID(id uint) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := r.db.First(&ticket, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query ticket by id failed: %w", err)
	}
	return &ticket, nil
}

func (r *TicketRepository) Save(ticket *model.Ticket) error {
	if err := r.db.Save(ticket).Error; err != nil {
		return fmt.Errorf("save ticket failed: %w", err)
	}
	return nil
}

func (r *TicketRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Ticket{}, id).Error; err != nil {
		return fmt.Errorf("delete ticket failed: %w", err)
	}
	return nil
}
