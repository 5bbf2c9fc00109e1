package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/techassist/support-service/internal/domain"
	"github.com/techassist/support-service/internal/repository"
	apperrors "github.com/techassist/support-service/pkg/util"
)

// --- Mock repository ---

type mockTicketRepo struct {
	createFn       func(ctx context.Context, ticket *domain.Ticket) error
	getWithNamesFn func(ctx context.Context, id int64) (*domain.Ticket, error)
	listFn         func(ctx context.Context, ownerID *int64) ([]domain.Ticket, error)
	updateFieldsFn func(ctx context.Context, id int64, patch repository.TicketPatch) error
	deleteFn       func(ctx context.Context, id int64) error

	updateCalls int
}

func (m *mockTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	if m.createFn != nil {
		return m.createFn(ctx, ticket)
	}
	ticket.ID = 1
	return nil
}

func (m *mockTicketRepo) GetWithNames(ctx context.Context, id int64) (*domain.Ticket, error) {
	if m.getWithNamesFn != nil {
		return m.getWithNamesFn(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockTicketRepo) List(ctx context.Context, ownerID *int64) ([]domain.Ticket, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockTicketRepo) UpdateFields(ctx context.Context, id int64, patch repository.TicketPatch) error {
	m.updateCalls++
	if m.updateFieldsFn != nil {
		return m.updateFieldsFn(ctx, id, patch)
	}
	return nil
}

func (m *mockTicketRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func cliente(id int64) *domain.User { return &domain.User{ID: id, Role: domain.RoleCliente} }
func tecnico(id int64) *domain.User { return &domain.User{ID: id, Role: domain.RoleTecnico} }

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	if got := apperrors.ToDomainError(err).HTTPStatus; got != status {
		t.Fatalf("status = %d, want %d (err: %v)", got, status, err)
	}
}

// --- Tests ---

func TestCreateDefaultsAndRefetch(t *testing.T) {
	owner := "ana"
	repo := &mockTicketRepo{
		createFn: func(_ context.Context, ticket *domain.Ticket) error {
			if ticket.Priority != domain.TicketPriorityMedia {
				t.Errorf("priority = %s, want media default", ticket.Priority)
			}
			if ticket.Status != domain.TicketStatusAbierto {
				t.Errorf("status = %s, want abierto", ticket.Status)
			}
			ticket.ID = 5
			return nil
		},
		getWithNamesFn: func(_ context.Context, id int64) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, UserID: 1, Title: "printer jam", CreatedBy: &owner}, nil
		},
	}
	svc := NewTicketService(repo, nil)

	ticket, err := svc.Create(context.Background(), cliente(1), TicketCreateInput{Title: "printer jam"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ticket.CreatedBy == nil || *ticket.CreatedBy != "ana" {
		t.Errorf("CreatedBy = %v, want enriched view from re-fetch", ticket.CreatedBy)
	}
}

func TestCreateRejectsUnknownPriority(t *testing.T) {
	svc := NewTicketService(&mockTicketRepo{}, nil)
	_, err := svc.Create(context.Background(), cliente(1), TicketCreateInput{
		Title:    "x",
		Priority: domain.TicketPriority("urgente"),
	})
	assertStatus(t, err, http.StatusBadRequest)
}

func TestGetForeignTicketForbiddenNotMasked(t *testing.T) {
	repo := &mockTicketRepo{
		getWithNamesFn: func(_ context.Context, id int64) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, UserID: 1}, nil
		},
	}
	svc := NewTicketService(repo, nil)

	// Existence is revealed first, then ownership: a foreign cliente gets 403.
	_, err := svc.Get(context.Background(), cliente(2), 10)
	assertStatus(t, err, http.StatusForbidden)

	if _, err := svc.Get(context.Background(), tecnico(2), 10); err != nil {
		t.Errorf("tecnico should view any ticket, got %v", err)
	}
}

func TestGetMissingTicketNotFound(t *testing.T) {
	svc := NewTicketService(&mockTicketRepo{}, nil)
	_, err := svc.Get(context.Background(), tecnico(1), 99)
	assertStatus(t, err, http.StatusNotFound)
}

func TestListFiltersClienteToOwnTickets(t *testing.T) {
	repo := &mockTicketRepo{
		listFn: func(_ context.Context, ownerID *int64) ([]domain.Ticket, error) {
			if ownerID == nil || *ownerID != 3 {
				t.Errorf("ownerID = %v, want 3", ownerID)
			}
			return []domain.Ticket{{ID: 1, UserID: 3}}, nil
		},
	}
	svc := NewTicketService(repo, nil)
	if _, err := svc.List(context.Background(), cliente(3)); err != nil {
		t.Fatalf("List: %v", err)
	}
}

func TestListUnfilteredForStaffRoles(t *testing.T) {
	repo := &mockTicketRepo{
		listFn: func(_ context.Context, ownerID *int64) ([]domain.Ticket, error) {
			if ownerID != nil {
				t.Errorf("ownerID = %v, want nil for tecnico", ownerID)
			}
			return nil, nil
		},
	}
	svc := NewTicketService(repo, nil)
	if _, err := svc.List(context.Background(), tecnico(3)); err != nil {
		t.Fatalf("List: %v", err)
	}
}

func TestUpdateEmptyPatchFailsBeforeStorage(t *testing.T) {
	repo := &mockTicketRepo{
		getWithNamesFn: func(_ context.Context, id int64) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, UserID: 1}, nil
		},
	}
	svc := NewTicketService(repo, nil)

	_, err := svc.Update(context.Background(), cliente(1), 10, repository.TicketPatch{})
	assertStatus(t, err, http.StatusBadRequest)
	if repo.updateCalls != 0 {
		t.Errorf("UpdateFields called %d times, want 0", repo.updateCalls)
	}
}

func TestUpdateForeignTicketForbidden(t *testing.T) {
	repo := &mockTicketRepo{
		getWithNamesFn: func(_ context.Context, id int64) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, UserID: 1}, nil
		},
	}
	svc := NewTicketService(repo, nil)

	title := "hijack"
	_, err := svc.Update(context.Background(), cliente(2), 10, repository.TicketPatch{Title: &title})
	assertStatus(t, err, http.StatusForbidden)
	if repo.updateCalls != 0 {
		t.Errorf("UpdateFields called %d times, want 0", repo.updateCalls)
	}
}

func TestUpdateReturnsRefreshedView(t *testing.T) {
	fetches := 0
	repo := &mockTicketRepo{
		getWithNamesFn: func(_ context.Context, id int64) (*domain.Ticket, error) {
			fetches++
			ticket := &domain.Ticket{ID: id, UserID: 1, Status: domain.TicketStatusAbierto}
			if fetches > 1 {
				ticket.Status = domain.TicketStatusResuelto
			}
			return ticket, nil
		},
	}
	svc := NewTicketService(repo, nil)

	status := domain.TicketStatusResuelto
	updated, err := svc.Update(context.Background(), tecnico(2), 10, repository.TicketPatch{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != domain.TicketStatusResuelto {
		t.Errorf("Status = %s, want the re-fetched value", updated.Status)
	}
	if fetches != 2 {
		t.Errorf("fetches = %d, want load + refresh", fetches)
	}
	if repo.updateCalls != 1 {
		t.Errorf("UpdateFields calls = %d, want 1", repo.updateCalls)
	}
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	repo := &mockTicketRepo{
		getWithNamesFn: func(_ context.Context, id int64) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, UserID: 1}, nil
		},
	}
	svc := NewTicketService(repo, nil)

	status := domain.TicketStatus("archived")
	_, err := svc.Update(context.Background(), tecnico(1), 10, repository.TicketPatch{Status: &status})
	assertStatus(t, err, http.StatusBadRequest)
}

func TestDeleteRequiresStaffRole(t *testing.T) {
	svc := NewTicketService(&mockTicketRepo{}, nil)

	err := svc.Delete(context.Background(), cliente(1), 10)
	assertStatus(t, err, http.StatusForbidden)

	if err := svc.Delete(context.Background(), tecnico(1), 10); err != nil {
		t.Errorf("tecnico delete: %v", err)
	}
}

func TestDeleteMissingTicketNotFound(t *testing.T) {
	repo := &mockTicketRepo{
		deleteFn: func(_ context.Context, _ int64) error { return pgx.ErrNoRows },
	}
	svc := NewTicketService(repo, nil)

	err := svc.Delete(context.Background(), tecnico(1), 99)
	assertStatus(t, err, http.StatusNotFound)
}

func TestDeletePropagatesStorageFailure(t *testing.T) {
	repo := &mockTicketRepo{
		deleteFn: func(_ context.Context, _ int64) error { return errors.New("connection reset") },
	}
	svc := NewTicketService(repo, nil)

	err := svc.Delete(context.Background(), tecnico(1), 1)
	assertStatus(t, err, http.StatusInternalServerError)
}
