package dto

import (
	"time"

	"github.com/techassist/support-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
}

// UpdateTicketRequest carries the sparse patch; absent fields stay nil and
// are not written.
type UpdateTicketRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	AssignedTo  *int64  `json:"assigned_to"`
}

// TicketResponse is the denormalized ticket view.
type TicketResponse struct {
	ID             int64                 `json:"id"`
	UserID         int64                 `json:"user_id"`
	Title          string                `json:"title"`
	Description    *string               `json:"description"`
	Status         domain.TicketStatus   `json:"status"`
	Priority       domain.TicketPriority `json:"priority"`
	AssignedTo     *int64                `json:"assigned_to"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	CreatedBy      *string               `json:"created_by"`
	AssignedToName *string               `json:"assigned_to_name"`
}

// NewTicketResponse maps a domain ticket to its API view.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:             ticket.ID,
		UserID:         ticket.UserID,
		Title:          ticket.Title,
		Description:    ticket.Description,
		Status:         ticket.Status,
		Priority:       ticket.Priority,
		AssignedTo:     ticket.AssignedTo,
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
		CreatedBy:      ticket.CreatedBy,
		AssignedToName: ticket.AssignedToName,
	}
}
