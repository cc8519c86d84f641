package domain

import (
	"context"
	"time"
)

// ExperienceEntry is a single work-history item inside a CV profile.
type ExperienceEntry struct {
	CompanyName string  `json:"company_name" validate:"required"`
	JobTitle    string  `json:"job_title" validate:"required"`
	StartDate   string  `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate     *string `json:"end_date,omitempty"`
	Description string  `json:"description,omitempty"`
}

// EducationEntry is a single education item inside a CV profile.
type EducationEntry struct {
	Institution  string `json:"institution" validate:"required"`
	Degree       string `json:"degree,omitempty"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	StartYear    int    `json:"start_year,omitempty"`
	EndYear      int    `json:"end_year,omitempty"`
}

// CVProfile is a structured, user-authored resume record. It is distinct
// from any uploaded file: a user can keep several profiles and mark at most
// one of them as the default.
type CVProfile struct {
	ID             int64             `json:"id"`
	UserID         string            `json:"user_id"`
	Title          string            `json:"title" validate:"required,max=150"`
	Summary        *string           `json:"summary,omitempty"`
	Experience     []ExperienceEntry `json:"experience" validate:"dive"`
	Education      []EducationEntry  `json:"education" validate:"dive"`
	Skills         []string          `json:"skills"`
	Languages      []string          `json:"languages"`
	Certifications []string          `json:"certifications"`
	IsDefault      bool              `json:"is_default"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// CVProfileUpdate carries partial changes for an existing profile.
// Nil fields are left untouched.
type CVProfileUpdate struct {
	Title          *string            `json:"title,omitempty" validate:"omitempty,max=150"`
	Summary        *string            `json:"summary,omitempty"`
	Experience     *[]ExperienceEntry `json:"experience,omitempty" validate:"omitempty,dive"`
	Education      *[]EducationEntry  `json:"education,omitempty" validate:"omitempty,dive"`
	Skills         *[]string          `json:"skills,omitempty"`
	Languages      *[]string          `json:"languages,omitempty"`
	Certifications *[]string          `json:"certifications,omitempty"`
}

// CVProfileRepository defines data access methods for CV profiles.
// Every method is scoped by the owning user.
type CVProfileRepository interface {
	Create(ctx context.Context, profile *CVProfile) error
	Update(ctx context.Context, ownerID string, profileID int64, update *CVProfileUpdate) (*CVProfile, error)
	ListByOwner(ctx context.Context, ownerID string) ([]CVProfile, error)
	GetOwned(ctx context.Context, ownerID string, profileID int64) (*CVProfile, error)
	DeleteOwned(ctx context.Context, ownerID string, profileID int64) error
	// SetDefault atomically unsets is_default on every profile the owner has
	// and sets it on the target. Runs in a single transaction; if the target
	// does not belong to the owner nothing is altered.
	SetDefault(ctx context.Context, ownerID string, profileID int64) (*CVProfile, error)
}

// CVProfileUsecase defines business logic for CV profiles.
type CVProfileUsecase interface {
	CreateProfile(ctx context.Context, ownerID string, profile *CVProfile) (*CVProfile, error)
	UpdateProfile(ctx context.Context, ownerID string, profileID int64, update *CVProfileUpdate) (*CVProfile, error)
	ListProfiles(ctx context.Context, ownerID string) ([]CVProfile, error)
	GetProfile(ctx context.Context, ownerID string, profileID int64) (*CVProfile, error)
	DeleteProfile(ctx context.Context, ownerID string, profileID int64) error
	SetDefaultProfile(ctx context.Context, ownerID string, profileID int64) (*CVProfile, error)
}
