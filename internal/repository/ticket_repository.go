package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/techassist/support-service/internal/domain"
)

// TicketPatch carries the optional fields of a partial update. A nil field
// is left untouched by UpdateFields.
type TicketPatch struct {
	Title       *string
	Description *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	AssignedTo  *int64
}

// Empty reports whether the patch provides no fields.
func (p TicketPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.AssignedTo == nil
}

// assignments expands the provided fields into SET clauses with positional
// placeholders and the matching argument slice, index for index. Column
// names come from this fixed list only; caller input is bound, never
// interpolated.
func (p TicketPatch) assignments() ([]string, []any) {
	clauses := []string{}
	args := []any{}

	if p.Title != nil {
		args = append(args, *p.Title)
		clauses = append(clauses, fmt.Sprintf("title=$%d", len(args)))
	}
	if p.Description != nil {
		args = append(args, *p.Description)
		clauses = append(clauses, fmt.Sprintf("description=$%d", len(args)))
	}
	if p.Status != nil {
		args = append(args, *p.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if p.Priority != nil {
		args = append(args, *p.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if p.AssignedTo != nil {
		args = append(args, *p.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	return clauses, args
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetWithNames(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, ownerID *int64) ([]domain.Ticket, error)
	UpdateFields(ctx context.Context, id int64, patch TicketPatch) error
	Delete(ctx context.Context, id int64) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (user_id, title, description, status, priority)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.UserID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

const enrichedSelect = `
        SELECT t.id, t.user_id, t.title, t.description, t.status, t.priority,
               t.assigned_to, t.created_at, t.updated_at,
               u.username AS created_by, a.username AS assigned_to_name
        FROM tickets t
        LEFT JOIN users u ON t.user_id = u.id
        LEFT JOIN users a ON t.assigned_to = a.id`

// GetWithNames returns the denormalized view of a single ticket, including
// creator and assignee usernames.
func (r *ticketRepository) GetWithNames(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := enrichedSelect + ` WHERE t.id=$1`

	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.AssignedTo,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.CreatedBy,
		&ticket.AssignedToName,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// List returns enriched tickets newest first. A non-nil ownerID restricts
// the result to tickets created by that user.
func (r *ticketRepository) List(ctx context.Context, ownerID *int64) ([]domain.Ticket, error) {
	query := enrichedSelect
	args := []any{}
	if ownerID != nil {
		args = append(args, *ownerID)
		query += fmt.Sprintf(" WHERE t.user_id=$%d", len(args))
	}
	query += ` ORDER BY t.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// UpdateFields issues a single UPDATE touching only the provided fields and
// refreshing updated_at. Callers validate against an empty patch before
// reaching storage; an empty patch here fails without issuing a statement.
func (r *ticketRepository) UpdateFields(ctx context.Context, id int64, patch TicketPatch) error {
	clauses, args := patch.assignments()
	if len(clauses) == 0 {
		return fmt.Errorf("ticket update requires at least one field")
	}
	clauses = append(clauses, "updated_at=NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE tickets SET %s WHERE id=$%d",
		strings.Join(clauses, ", "), len(args))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.UserID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Status,
			&ticket.Priority,
			&ticket.AssignedTo,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&ticket.CreatedBy,
			&ticket.AssignedToName,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
