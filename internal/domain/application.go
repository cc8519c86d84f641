package domain

import (
	"context"
	"time"
)

// Application status constants. Transitions are employer-driven and outside
// this core; we only store and return the value.
const (
	ApplicationStatusPending     = "pending"
	ApplicationStatusReviewed    = "reviewed"
	ApplicationStatusShortlisted = "shortlisted"
	ApplicationStatusRejected    = "rejected"
	ApplicationStatusHired       = "hired"
)

// JobApplication represents a candidate's application to a job, optionally
// referencing one of their CV profiles and any number of their documents.
// Applications are append-only: once created they are never deleted.
type JobApplication struct {
	ID          int64     `json:"id"`
	ApplicantID string    `json:"applicant_id"`
	JobID       int64     `json:"job_id"`
	CVProfileID *int64    `json:"cv_profile_id,omitempty"`
	CoverLetter *string   `json:"cover_letter,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`

	// Joined data for responses
	JobTitle    *string    `json:"job_title,omitempty"`
	CompanyName *string    `json:"company_name,omitempty"`
	CVProfile   *CVProfile `json:"cv_profile,omitempty"`
	Documents   []Document `json:"documents"`
}

// ApplyInput is the payload for applying to a job.
type ApplyInput struct {
	CVProfileID *int64  `json:"cv_profile_id,omitempty"`
	CoverLetter *string `json:"cover_letter,omitempty"`
	DocumentIDs []int64 `json:"document_ids"`
}

// ApplyResult reports the created application together with any document
// attachments that were rejected. A rejected attachment does not fail the
// application (best-effort semantics).
type ApplyResult struct {
	Application         *JobApplication `json:"application"`
	RejectedDocumentIDs []int64         `json:"rejected_document_ids,omitempty"`
}

// ApplicationRepository defines data access methods for job applications
// and their document associations.
type ApplicationRepository interface {
	Create(ctx context.Context, app *JobApplication) error
	// AttachDocument inserts one join row. The insert re-verifies that the
	// document still exists and belongs to the applicant at attach time, so
	// a concurrent delete cannot leave a dangling reference. Duplicate
	// pairs are ignored. Returns ErrNotFound when the ownership check fails.
	AttachDocument(ctx context.Context, applicationID int64, applicantID string, documentID int64) error
	ListByApplicant(ctx context.Context, applicantID string) ([]JobApplication, error)
	GetOwned(ctx context.Context, applicantID string, applicationID int64) (*JobApplication, error)
	CheckExists(ctx context.Context, jobID int64, applicantID string) (bool, error)
}

// ApplicationUsecase defines business logic for job applications.
type ApplicationUsecase interface {
	ApplyToJob(ctx context.Context, applicantID string, jobID int64, input *ApplyInput) (*ApplyResult, error)
	ListMyApplications(ctx context.Context, applicantID string) ([]JobApplication, error)
	GetMyApplication(ctx context.Context, applicantID string, applicationID int64) (*JobApplication, error)
}
