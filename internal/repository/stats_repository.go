package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRepository exposes read-side aggregate counts. Each query observes
// its own instant; no cross-query consistency is promised.
type StatsRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountTickets(ctx context.Context) (int64, error)
	CountTicketsByStatus(ctx context.Context) (map[string]int64, error)
	CountTicketsByPriority(ctx context.Context) (map[string]int64, error)
	CountTicketsByOwner(ctx context.Context, ownerID int64) (int64, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository instantiates repository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users`)
}

func (r *statsRepository) CountTickets(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM tickets`)
}

func (r *statsRepository) CountTicketsByStatus(ctx context.Context) (map[string]int64, error) {
	return r.grouped(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status`)
}

func (r *statsRepository) CountTicketsByPriority(ctx context.Context) (map[string]int64, error) {
	return r.grouped(ctx, `SELECT priority, COUNT(*) FROM tickets GROUP BY priority`)
}

func (r *statsRepository) CountTicketsByOwner(ctx context.Context, ownerID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE user_id=$1`
	var count int64
	if err := r.pool.QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *statsRepository) count(ctx context.Context, query string) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *statsRepository) grouped(ctx context.Context, query string) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		result[key] = count
	}
	return result, rows.Err()
}
