package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tickettrack/internal/model"
	"tickettrack/internal/repository"
)

var (
	ErrTicketNameRequired = errors.New("ticket name is required")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrInvalidDueDate     = errors.New("due date must be in YYYY-MM-DD format")
)

const dueDateLayout = "2006-01-02"

// ActivityPublisher enqueues audit events for asynchronous persistence.
type ActivityPublisher interface {
	Publish(ctx context.Context, activity model.TicketActivity) error
}

type TicketService struct {
	ticketRepo   *repository.TicketRepository
	activityRepo *repository.TicketActivityRepository
	publisher    ActivityPublisher
}

type CreateTicketInput struct {
	Name        string
	Description string
	Status      string
	Priority    string
	DueDate     string
	AuthorID    *uint
	ActorID     *uint
}

type UpdateTicketInput struct {
	Name        *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *string
	ActorID     *uint
}

func NewTicketService(
	ticketRepo *repository.TicketRepository,
	activityRepo *repository.TicketActivityRepository,
	publisher ActivityPublisher,
) *TicketService {
	return &TicketService{
		ticketRepo:   ticketRepo,
		activityRepo: activityRepo,
		publisher:    publisher,
	}
}

func (s *TicketService) List() ([]model.Ticket, error) {
	return s.ticketRepo.List()
}

func (s *TicketService) Create(input CreateTicketInput) (*model.Ticket, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTicketNameRequired
	}

	dueDate, err := parseDueDate(input.DueDate)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.DefaultStatus
	}
	priority := input.Priority
	if priority == "" {
		priority = model.DefaultPriority
	}

	ticket := &model.Ticket{
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   time.Now().UTC(),
		DueDate:     dueDate,
		Status:      status,
		Priority:    priority,
		AuthorID:    input.AuthorID,
	}
	if err := s.ticketRepo.Create(ticket); err != nil {
		return nil, err
	}

	s.publishActivity(ticket.ID, model.ActivityCreated, input.ActorID, fmt.Sprintf("ticket %q created", ticket.Name))
	return ticket, nil
}

func (s *TicketService) Update(id uint, input UpdateTicketInput) (*model.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}

	if input.Name != nil {
		ticket.Name = *input.Name
	}
	if input.Description != nil {
		ticket.Description = *input.Description
	}
	if input.Status != nil {
		ticket.Status = *input.Status
	}
	if input.Priority != nil {
		ticket.Priority = *input.Priority
	}
	// An empty due_date string leaves the stored value untouched, matching
	// the partial-update treatment of the other fields.
	if input.DueDate != nil && *input.DueDate != "" {
		dueDate, err := parseDueDate(*input.DueDate)
		if err != nil {
			return nil, err
		}
		ticket.DueDate = dueDate
	}

	if err := s.ticketRepo.Save(ticket); err != nil {
		return nil, err
	}

	s.publishActivity(ticket.ID, model.ActivityUpdated, input.ActorID, fmt.Sprintf("ticket %q updated", ticket.Name))
	return ticket, nil
}

func (s *TicketService) Delete(id uint, actorID *uint) error {
	ticket, err := s.ticketRepo.GetByID(id)
	if err != nil {
		return err
	}
	if ticket == nil {
		return ErrTicketNotFound
	}

	if err := s.ticketRepo.Delete(id); err != nil {
		return err
	}

	s.publishActivity(id, model.ActivityDeleted, actorID, fmt.Sprintf("ticket %q deleted", ticket.Name))
	return nil
}

func (s *TicketService) ListActivity(ticketID uint) ([]model.TicketActivity, error) {
	ticket, err := s.ticketRepo.GetByID(ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}
	return s.activityRepo.ListByTicketID(ticketID)
}

// publishActivity is best-effort: the mutation has already committed, so a
// broker failure is logged and never surfaced to the client.
func (s *TicketService) publishActivity(ticketID uint, action string, actorID *uint, detail string) {
	if s.publisher == nil {
		return
	}
	activity := model.TicketActivity{
		TicketID:  ticketID,
		Action:    action,
		ActorID:   actorID,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(context.Background(), activity); err != nil {
		log.Printf("publish ticket activity failed: %v", err)
	}
}

func parseDueDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dueDateLayout, raw)
	if err != nil {
		return nil, ErrInvalidDueDate
	}
	return &parsed, nil
}
