package auth

import "github.com/techassist/support-service/internal/domain"

// Authorization is a pure mapping from (role, ownership) to allow/deny.
// Every switch below is exhaustive over domain.Role.

// CanViewTicket reports whether the user may read the ticket. A cliente is
// limited to tickets they created; admin and tecnico see everything.
func CanViewTicket(user *domain.User, ticket *domain.Ticket) bool {
	switch user.Role {
	case domain.RoleAdmin, domain.RoleTecnico:
		return true
	case domain.RoleCliente:
		return ticket.UserID == user.ID
	}
	return false
}

// CanUpdateTicket mirrors the view rule: ownership gates clientes, staff
// roles may update any ticket.
func CanUpdateTicket(user *domain.User, ticket *domain.Ticket) bool {
	return CanViewTicket(user, ticket)
}

// CanListAllTickets reports whether the user sees the full ticket set. A
// false result is a filter to self-owned tickets, not a denial.
func CanListAllTickets(user *domain.User) bool {
	switch user.Role {
	case domain.RoleAdmin, domain.RoleTecnico:
		return true
	case domain.RoleCliente:
		return false
	}
	return false
}

// CanManageUsers gates the user-listing endpoints.
func CanManageUsers(user *domain.User) bool {
	switch user.Role {
	case domain.RoleAdmin, domain.RoleTecnico:
		return true
	case domain.RoleCliente:
		return false
	}
	return false
}

// CanDeleteTicket gates ticket deletion regardless of ownership.
func CanDeleteTicket(user *domain.User) bool {
	switch user.Role {
	case domain.RoleAdmin, domain.RoleTecnico:
		return true
	case domain.RoleCliente:
		return false
	}
	return false
}
