package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tickettrack/internal/app"
	"tickettrack/internal/model"
	"tickettrack/internal/transport/http/middleware"
	"tickettrack/internal/transport/http/response"
)

type TicketHandler struct {
	ticketService *app.TicketService
}

type CreateTicketRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
	AuthorID    *uint  `json:"author_id"`
}

type UpdateTicketRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
}

// TicketPayload is the serialized wire shape of a ticket. Timestamps are
// rendered in UTC: created_at as "YYYY-MM-DD HH:MM:SS", due_date as
// "YYYY-MM-DD", both null when unset.
type TicketPayload struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CreatedAt   *string `json:"created_at"`
	DueDate     *string `json:"due_date"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	AuthorID    *uint   `json:"author_id"`
}

func NewTicketHandler(ticketService *app.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

func (h *TicketHandler) List(c *gin.Context) {
	tickets, err := h.ticketService.List()
	if err != nil {
		log.Printf("list tickets failed: %v", err)
		response.Error(c, http.StatusInternalServerError, "An error occurred while fetching tickets.")
		return
	}

	payload := make([]TicketPayload, 0, len(tickets))
	for _, ticket := range tickets {
		payload = append(payload, serializeTicket(ticket))
	}
	c.JSON(http.StatusOK, payload)
}

func (h *TicketHandler) Create(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	actorID := actorIDFromSession(c)
	ticket, err := h.ticketService.Create(app.CreateTicketInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		AuthorID:    req.AuthorID,
		ActorID:     actorID,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrTicketNameRequired):
			response.Error(c, http.StatusBadRequest, "Name is required.")
		case errors.Is(err, app.ErrInvalidDueDate):
			response.Error(c, http.StatusBadRequest, "Due date must be in YYYY-MM-DD format.")
		default:
			log.Printf("create ticket failed: %v", err)
			response.Error(c, http.StatusInternalServerError, "An error occurred while creating the ticket.")
		}
		return
	}

	c.JSON(http.StatusCreated, serializeTicket(*ticket))
}

func (h *TicketHandler) Update(c *gin.Context) {
	id, ok := ticketIDParam(c)
	if !ok {
		return
	}

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	ticket, err := h.ticketService.Update(id, app.UpdateTicketInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		ActorID:     actorIDFromSession(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrTicketNotFound):
			response.Error(c, http.StatusNotFound, "Ticket not found.")
		case errors.Is(err, app.ErrInvalidDueDate):
			response.Error(c, http.StatusBadRequest, "Due date must be in YYYY-MM-DD format.")
		default:
			log.Printf("update ticket failed: %v", err)
			response.Error(c, http.StatusInternalServerError, "An error occurred while updating the ticket.")
		}
		return
	}

	c.JSON(http.StatusOK, serializeTicket(*ticket))
}

func (h *TicketHandler) Delete(c *gin.Context) {
	id, ok := ticketIDParam(c)
	if !ok {
		return
	}

	if err := h.ticketService.Delete(id, actorIDFromSession(c)); err != nil {
		if errors.Is(err, app.ErrTicketNotFound) {
			response.Error(c, http.StatusNotFound, "Ticket not found.")
			return
		}
		log.Printf("delete ticket failed: %v", err)
		response.Error(c, http.StatusInternalServerError, "An error occurred while deleting the ticket.")
		return
	}

	response.Message(c, http.StatusOK, "Ticket deleted successfully.")
}

func (h *TicketHandler) ListActivity(c *gin.Context) {
	id, ok := ticketIDParam(c)
	if !ok {
		return
	}

	activities, err := h.ticketService.ListActivity(id)
	if err != nil {
		if errors.Is(err, app.ErrTicketNotFound) {
			response.Error(c, http.StatusNotFound, "Ticket not found.")
			return
		}
		log.Printf("list ticket activity failed: %v", err)
		response.Error(c, http.StatusInternalServerError, "An error occurred while fetching ticket activity.")
		return
	}

	c.JSON(http.StatusOK, activities)
}

func serializeTicket(ticket model.Ticket) TicketPayload {
	payload := TicketPayload{
		ID:          ticket.ID,
		Name:        ticket.Name,
		Description: ticket.Description,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		AuthorID:    ticket.AuthorID,
	}
	if !ticket.CreatedAt.IsZero() {
		created := ticket.CreatedAt.UTC().Format("2006-01-02 15:04:05")
		payload.CreatedAt = &created
	}
	if ticket.DueDate != nil {
		due := ticket.DueDate.UTC().Format("2006-01-02")
		payload.DueDate = &due
	}
	return payload
}

func ticketIDParam(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.Error(c, http.StatusNotFound, "Ticket not found.")
		return 0, false
	}
	return uint(id), true
}

func actorIDFromSession(c *gin.Context) *uint {
	if id, ok := middleware.CurrentUserID(c); ok {
		return &id
	}
	return nil
}
