package usecase

import (
	"context"
	"errors"

	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/domain"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/apperror"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/logger"
)

type applicationUsecase struct {
	applicationRepo domain.ApplicationRepository
	cvProfileRepo   domain.CVProfileRepository
	documentRepo    domain.DocumentRepository
	jobRepo         domain.JobRepository
}

// NewApplicationUsecase creates a new application usecase
func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	cvProfileRepo domain.CVProfileRepository,
	documentRepo domain.DocumentRepository,
	jobRepo domain.JobRepository,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		applicationRepo: appRepo,
		cvProfileRepo:   cvProfileRepo,
		documentRepo:    documentRepo,
		jobRepo:         jobRepo,
	}
}

// ApplyToJob validates the cross-entity references, creates the application,
// then attaches documents best-effort. Attachments that fail ownership or
// existence checks are reported in the result, never rolled back.
func (uc *applicationUsecase) ApplyToJob(ctx context.Context, applicantID string, jobID int64, input *domain.ApplyInput) (*domain.ApplyResult, error) {
	// 1. Job must exist.
	if _, err := uc.jobRepo.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Internal(err)
	}

	// 2. One application per job per candidate.
	exists, err := uc.applicationRepo.CheckExists(ctx, jobID, applicantID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.BadRequest("You have already applied to this job")
	}

	// 3. A referenced CV profile must belong to the applicant. A profile that
	// exists but belongs to someone else fails the same way as a missing one.
	if input.CVProfileID != nil {
		if _, err := uc.cvProfileRepo.GetOwned(ctx, applicantID, *input.CVProfileID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.Forbidden("CV profile does not belong to you")
			}
			return nil, apperror.Internal(err)
		}
	}

	// 4. Create the application row.
	app := &domain.JobApplication{
		ApplicantID: applicantID,
		JobID:       jobID,
		CVProfileID: input.CVProfileID,
		CoverLetter: input.CoverLetter,
		Status:      domain.ApplicationStatusPending,
	}
	if err := uc.applicationRepo.Create(ctx, app); err != nil {
		return nil, apperror.Internal(err)
	}

	// 5. Attach documents. Ownership is re-verified inside each attach, so a
	// document deleted since the request was built is simply rejected. Public
	// documents of other users are rejected the same way: attaching requires
	// ownership, not visibility.
	var rejected []int64
	for _, docID := range input.DocumentIDs {
		if err := uc.applicationRepo.AttachDocument(ctx, app.ID, applicantID, docID); err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				logger.Log.Error("document attach failed",
					"application_id", app.ID, "document_id", docID, "error", err)
			}
			rejected = append(rejected, docID)
		}
	}

	// 6. Return the joined view.
	created, err := uc.applicationRepo.GetOwned(ctx, applicantID, app.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.ApplyResult{
		Application:         created,
		RejectedDocumentIDs: rejected,
	}, nil
}

// ListMyApplications returns all applications for the current user with
// joined job, profile, and document data.
func (uc *applicationUsecase) ListMyApplications(ctx context.Context, applicantID string) ([]domain.JobApplication, error) {
	apps, err := uc.applicationRepo.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return apps, nil
}

func (uc *applicationUsecase) GetMyApplication(ctx context.Context, applicantID string, applicationID int64) (*domain.JobApplication, error) {
	app, err := uc.applicationRepo.GetOwned(ctx, applicantID, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}
	return app, nil
}
