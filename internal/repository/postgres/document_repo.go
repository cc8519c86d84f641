package postgres

import (
	"context"
	"errors"

	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type documentRepo struct {
	db *pgxpool.Pool
}

// NewDocumentRepository creates a new document metadata repository
func NewDocumentRepository(db *pgxpool.Pool) domain.DocumentRepository {
	return &documentRepo{db: db}
}

const documentColumns = `id, owner_id, doc_type, file_name, storage_key, file_size, mime_type, is_public, created_at`

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var d domain.Document
	err := row.Scan(
		&d.ID, &d.OwnerID, &d.Type, &d.FileName, &d.StorageKey,
		&d.FileSize, &d.MimeType, &d.IsPublic, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a metadata row for an already-stored blob.
func (r *documentRepo) Create(ctx context.Context, d *domain.Document) error {
	query := `
		INSERT INTO documents (owner_id, doc_type, file_name, storage_key, file_size, mime_type, is_public, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		d.OwnerID, d.Type, d.FileName, d.StorageKey, d.FileSize, d.MimeType, d.IsPublic,
	).Scan(&d.ID, &d.CreatedAt)
}

func (r *documentRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// GetVisible is a combined fetch+authorization query. A non-owner asking for
// a private document gets ErrNotFound, so the row's existence never leaks.
func (r *documentRepo) GetVisible(ctx context.Context, requesterID string, documentID int64) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 AND (owner_id = $2 OR is_public)`

	d, err := scanDocument(r.db.QueryRow(ctx, query, documentID, requesterID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *documentRepo) GetOwned(ctx context.Context, ownerID string, documentID int64) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 AND owner_id = $2`

	d, err := scanDocument(r.db.QueryRow(ctx, query, documentID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *documentRepo) DeleteOwned(ctx context.Context, ownerID string, documentID int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1 AND owner_id = $2`, documentID, ownerID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
