package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fricdix/bi-dashboard/internal/domain"
)

// AuditRepository persists the account activity trail.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository returns a Postgres-backed implementation.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	const query = `
        INSERT INTO audit_log (id, action, actor_id, actor_email, target_id, detail)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.Action,
		entry.ActorID,
		entry.ActorEmail,
		entry.TargetID,
		entry.Detail,
	).Scan(&entry.CreatedAt)
}

func (r *auditRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
        SELECT id, action, actor_id, actor_email, target_id, detail, created_at
        FROM audit_log ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&entry.ActorID,
			&entry.ActorEmail,
			&entry.TargetID,
			&entry.Detail,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
