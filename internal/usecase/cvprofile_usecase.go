package usecase

import (
	"context"
	"errors"

	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/domain"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type cvProfileUsecase struct {
	repo     domain.CVProfileRepository
	validate *validator.Validate
}

// NewCVProfileUsecase creates a new CV profile usecase
func NewCVProfileUsecase(repo domain.CVProfileRepository, validate *validator.Validate) domain.CVProfileUsecase {
	return &cvProfileUsecase{repo: repo, validate: validate}
}

func (u *cvProfileUsecase) CreateProfile(ctx context.Context, ownerID string, profile *domain.CVProfile) (*domain.CVProfile, error) {
	// Force ownership from the authenticated identity, never from the payload.
	profile.UserID = ownerID
	profile.IsDefault = false

	if err := u.validate.Struct(profile); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	if err := u.repo.Create(ctx, profile); err != nil {
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

func (u *cvProfileUsecase) UpdateProfile(ctx context.Context, ownerID string, profileID int64, update *domain.CVProfileUpdate) (*domain.CVProfile, error) {
	if err := u.validate.Struct(update); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	if update.Title != nil && *update.Title == "" {
		return nil, apperror.BadRequest("title cannot be empty")
	}

	profile, err := u.repo.Update(ctx, ownerID, profileID, update)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("CV profile not found")
		}
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

func (u *cvProfileUsecase) ListProfiles(ctx context.Context, ownerID string) ([]domain.CVProfile, error) {
	profiles, err := u.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return profiles, nil
}

func (u *cvProfileUsecase) GetProfile(ctx context.Context, ownerID string, profileID int64) (*domain.CVProfile, error) {
	profile, err := u.repo.GetOwned(ctx, ownerID, profileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("CV profile not found")
		}
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

// DeleteProfile removes the profile. If it was the default, the user is left
// with no default profile; nothing is auto-promoted.
func (u *cvProfileUsecase) DeleteProfile(ctx context.Context, ownerID string, profileID int64) error {
	if err := u.repo.DeleteOwned(ctx, ownerID, profileID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("CV profile not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (u *cvProfileUsecase) SetDefaultProfile(ctx context.Context, ownerID string, profileID int64) (*domain.CVProfile, error) {
	profile, err := u.repo.SetDefault(ctx, ownerID, profileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("CV profile not found")
		}
		return nil, apperror.Internal(err)
	}
	return profile, nil
}
