package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/techassist/support-service/internal/auth"
	"github.com/techassist/support-service/internal/domain"
	"github.com/techassist/support-service/internal/events"
	"github.com/techassist/support-service/internal/repository"
	apperrors "github.com/techassist/support-service/pkg/util"
)

// TicketService coordinates ticket workflows and enforces the role and
// ownership rules ahead of every repository call.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, dispatcher: dispatcher}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description *string
	Priority    domain.TicketPriority
}

// Create inserts a ticket owned by the requester and returns the enriched
// view obtained by re-fetching through the join query.
func (s *TicketService) Create(ctx context.Context, requester *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedia
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": string(priority)})
	}

	ticket := &domain.Ticket{
		UserID:      requester.ID,
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.TicketStatusAbierto,
		Priority:    priority,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	enriched, err := s.tickets.GetWithNames(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventTicketCreated,
		TicketID:  enriched.ID,
		Actor:     events.Actor{UserID: requester.ID, Role: requester.Role},
		Timestamp: time.Now(),
		Payload:   events.TicketCreatedPayload{Title: enriched.Title, Priority: enriched.Priority},
	})
	return enriched, nil
}

// Get loads the enriched view of one ticket. Existence is reported before
// ownership, so a cliente probing a foreign id receives Forbidden, not
// NotFound.
func (s *TicketService) Get(ctx context.Context, requester *domain.User, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetWithNames(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !auth.CanViewTicket(requester, ticket) {
		return nil, apperrors.NewForbidden("not authorized")
	}
	return ticket, nil
}

// List returns tickets visible to the requester, newest first. Clientes are
// filtered to their own tickets; admin and tecnico see all.
func (s *TicketService) List(ctx context.Context, requester *domain.User) ([]domain.Ticket, error) {
	var ownerID *int64
	if !auth.CanListAllTickets(requester) {
		ownerID = &requester.ID
	}
	tickets, err := s.tickets.List(ctx, ownerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Update applies a sparse patch to a ticket and returns the refreshed
// enriched view. An empty patch fails validation before storage is touched.
func (s *TicketService) Update(ctx context.Context, requester *domain.User, id int64, patch repository.TicketPatch) (*domain.Ticket, error) {
	current, err := s.tickets.GetWithNames(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !auth.CanUpdateTicket(requester, current) {
		return nil, apperrors.NewForbidden("not authorized")
	}

	if patch.Empty() {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(*patch.Status)})
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": string(*patch.Priority)})
	}

	if err := s.tickets.UpdateFields(ctx, id, patch); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, apperrors.MapError(err)
	}

	updated, err := s.tickets.GetWithNames(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	actor := events.Actor{UserID: requester.ID, Role: requester.Role}
	if patch.Status != nil && *patch.Status != current.Status {
		s.publish(ctx, events.Event{
			Type:      events.EventTicketStatusChanged,
			TicketID:  id,
			Actor:     actor,
			Timestamp: time.Now(),
			Payload:   events.TicketStatusChangedPayload{OldStatus: current.Status, NewStatus: *patch.Status},
		})
	}
	if patch.AssignedTo != nil {
		s.publish(ctx, events.Event{
			Type:      events.EventTicketAssigned,
			TicketID:  id,
			Actor:     actor,
			Timestamp: time.Now(),
			Payload:   events.TicketAssignedPayload{AssignedTo: patch.AssignedTo},
		})
	}
	return updated, nil
}

// Delete removes a ticket. Only admin and tecnico may delete, regardless of
// ownership.
func (s *TicketService) Delete(ctx context.Context, requester *domain.User, id int64) error {
	if !auth.CanDeleteTicket(requester) {
		return apperrors.NewForbidden("not authorized")
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
