package postgres

import (
	"context"
	"errors"

	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type jobRepo struct {
	db *pgxpool.Pool
}

// NewJobRepository creates a new job repository. Job management lives
// elsewhere; this repository only backs the apply-time existence check and
// the joined views.
func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	query := `SELECT id, title, company_name, status, created_at FROM jobs WHERE id = $1`

	var j domain.Job
	err := r.db.QueryRow(ctx, query, id).Scan(&j.ID, &j.Title, &j.CompanyName, &j.Status, &j.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}
