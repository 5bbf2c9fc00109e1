package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusAbierto   TicketStatus = "abierto"
	TicketStatusEnProceso TicketStatus = "en_proceso"
	TicketStatusResuelto  TicketStatus = "resuelto"
	TicketStatusCerrado   TicketStatus = "cerrado"
)

// Valid reports whether the status is one of the known values.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusAbierto, TicketStatusEnProceso, TicketStatusResuelto, TicketStatusCerrado:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityBaja  TicketPriority = "baja"
	TicketPriorityMedia TicketPriority = "media"
	TicketPriorityAlta  TicketPriority = "alta"
)

// Valid reports whether the priority is one of the known values.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityBaja, TicketPriorityMedia, TicketPriorityAlta:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. CreatedBy and AssignedToName
// are derived from joins against the users table and are never stored.
type Ticket struct {
	ID             int64
	UserID         int64
	Title          string
	Description    *string
	Status         TicketStatus
	Priority       TicketPriority
	AssignedTo     *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CreatedBy      *string
	AssignedToName *string
}
