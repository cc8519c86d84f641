package postgres

import (
	"context"
	"errors"

	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// Create inserts a new application
func (r *applicationRepo) Create(ctx context.Context, app *domain.JobApplication) error {
	query := `
		INSERT INTO job_applications (applicant_id, job_id, cv_profile_id, cover_letter, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at`

	if app.Status == "" {
		app.Status = domain.ApplicationStatusPending
	}

	return r.db.QueryRow(ctx, query,
		app.ApplicantID, app.JobID, app.CVProfileID, app.CoverLetter, app.Status,
	).Scan(&app.ID, &app.CreatedAt)
}

// AttachDocument inserts one join row. The ownership check is part of the
// INSERT itself: if the document was deleted or belongs to someone else by
// the time we get here, zero rows are selected and ErrNotFound is returned.
// Duplicate (application, document) pairs are ignored.
func (r *applicationRepo) AttachDocument(ctx context.Context, applicationID int64, applicantID string, documentID int64) error {
	query := `
		INSERT INTO application_documents (application_id, document_id)
		SELECT $1, d.id FROM documents d WHERE d.id = $2 AND d.owner_id = $3
		ON CONFLICT (application_id, document_id) DO NOTHING`

	result, err := r.db.Exec(ctx, query, applicationID, documentID, applicantID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		// Either the ownership subquery matched nothing, or the pair already
		// exists. Distinguish so an idempotent re-attach is not an error.
		var exists bool
		err := r.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM application_documents WHERE application_id = $1 AND document_id = $2)`,
			applicationID, documentID,
		).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
	}
	return nil
}

// GetOwned retrieves one application with joined job, profile, and document
// data, only for the applicant that owns it.
func (r *applicationRepo) GetOwned(ctx context.Context, applicantID string, applicationID int64) (*domain.JobApplication, error) {
	query := `
		SELECT
			a.id, a.applicant_id, a.job_id, a.cv_profile_id, a.cover_letter, a.status, a.created_at,
			j.title AS job_title, j.company_name
		FROM job_applications a
		LEFT JOIN jobs j ON a.job_id = j.id
		WHERE a.id = $1 AND a.applicant_id = $2`

	var app domain.JobApplication
	err := r.db.QueryRow(ctx, query, applicationID, applicantID).Scan(
		&app.ID, &app.ApplicantID, &app.JobID, &app.CVProfileID, &app.CoverLetter,
		&app.Status, &app.CreatedAt, &app.JobTitle, &app.CompanyName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if err := r.loadProfile(ctx, &app); err != nil {
		return nil, err
	}
	if err := r.loadDocuments(ctx, []*domain.JobApplication{&app}); err != nil {
		return nil, err
	}
	return &app, nil
}

// ListByApplicant retrieves all applications for a user, newest first, with
// joined job and document data.
func (r *applicationRepo) ListByApplicant(ctx context.Context, applicantID string) ([]domain.JobApplication, error) {
	query := `
		SELECT
			a.id, a.applicant_id, a.job_id, a.cv_profile_id, a.cover_letter, a.status, a.created_at,
			j.title AS job_title, j.company_name
		FROM job_applications a
		LEFT JOIN jobs j ON a.job_id = j.id
		WHERE a.applicant_id = $1
		ORDER BY a.created_at DESC`

	rows, err := r.db.Query(ctx, query, applicantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applications := []domain.JobApplication{}
	for rows.Next() {
		var app domain.JobApplication
		if err := rows.Scan(
			&app.ID, &app.ApplicantID, &app.JobID, &app.CVProfileID, &app.CoverLetter,
			&app.Status, &app.CreatedAt, &app.JobTitle, &app.CompanyName,
		); err != nil {
			return nil, err
		}
		applications = append(applications, app)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*domain.JobApplication, len(applications))
	for i := range applications {
		refs[i] = &applications[i]
	}
	for _, app := range refs {
		if err := r.loadProfile(ctx, app); err != nil {
			return nil, err
		}
	}
	if err := r.loadDocuments(ctx, refs); err != nil {
		return nil, err
	}
	return applications, nil
}

// CheckExists checks if an application already exists for the job/user combination
func (r *applicationRepo) CheckExists(ctx context.Context, jobID int64, applicantID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM job_applications WHERE job_id = $1 AND applicant_id = $2)`,
		jobID, applicantID,
	).Scan(&exists)
	return exists, err
}

// loadProfile resolves the referenced CV profile, if any. The foreign key is
// never exposed without the joined record.
func (r *applicationRepo) loadProfile(ctx context.Context, app *domain.JobApplication) error {
	if app.CVProfileID == nil {
		return nil
	}

	query := `SELECT ` + cvProfileColumns + ` FROM cv_profiles WHERE id = $1`
	p, err := scanProfile(r.db.QueryRow(ctx, query, *app.CVProfileID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Profile deleted after applying; the application stands on its own.
			return nil
		}
		return err
	}
	app.CVProfile = p
	return nil
}

// loadDocuments fills the attached documents for each application.
func (r *applicationRepo) loadDocuments(ctx context.Context, apps []*domain.JobApplication) error {
	for _, app := range apps {
		query := `
			SELECT ` + prefixedDocumentColumns + `
			FROM application_documents ad
			JOIN documents d ON ad.document_id = d.id
			WHERE ad.application_id = $1
			ORDER BY d.id`

		rows, err := r.db.Query(ctx, query, app.ID)
		if err != nil {
			return err
		}

		app.Documents = []domain.Document{}
		for rows.Next() {
			d, err := scanDocument(rows)
			if err != nil {
				rows.Close()
				return err
			}
			app.Documents = append(app.Documents, *d)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
	}
	return nil
}

const prefixedDocumentColumns = `d.id, d.owner_id, d.doc_type, d.file_name, d.storage_key, d.file_size, d.mime_type, d.is_public, d.created_at`
