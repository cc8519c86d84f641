package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type cvProfileRepo struct {
	db *pgxpool.Pool
}

// NewCVProfileRepository creates a new CV profile repository
func NewCVProfileRepository(db *pgxpool.Pool) domain.CVProfileRepository {
	return &cvProfileRepo{db: db}
}

const cvProfileColumns = `
	id, user_id, title, summary, experience, education,
	skills, languages, certifications, is_default, created_at, updated_at`

// scanProfile reads one profile row. Experience/education live in jsonb
// columns; the array fields are text[].
func scanProfile(row pgx.Row) (*domain.CVProfile, error) {
	var p domain.CVProfile
	var experienceJSON, educationJSON []byte
	var skills, languages, certifications []string

	err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Summary, &experienceJSON, &educationJSON,
		pq.Array(&skills), pq.Array(&languages), pq.Array(&certifications),
		&p.IsDefault, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Skills = skills
	p.Languages = languages
	p.Certifications = certifications
	p.Experience = []domain.ExperienceEntry{}
	p.Education = []domain.EducationEntry{}
	if len(experienceJSON) > 0 {
		if err := json.Unmarshal(experienceJSON, &p.Experience); err != nil {
			return nil, fmt.Errorf("decode experience: %w", err)
		}
	}
	if len(educationJSON) > 0 {
		if err := json.Unmarshal(educationJSON, &p.Education); err != nil {
			return nil, fmt.Errorf("decode education: %w", err)
		}
	}
	return &p, nil
}

// encodeEntries marshals the jsonb payloads. Parameters travel as text and
// are cast to jsonb in SQL, which keeps pgx from treating them as bytea.
func encodeEntries(experience []domain.ExperienceEntry, education []domain.EducationEntry) (string, string, error) {
	if experience == nil {
		experience = []domain.ExperienceEntry{}
	}
	if education == nil {
		education = []domain.EducationEntry{}
	}
	expJSON, err := json.Marshal(experience)
	if err != nil {
		return "", "", fmt.Errorf("encode experience: %w", err)
	}
	eduJSON, err := json.Marshal(education)
	if err != nil {
		return "", "", fmt.Errorf("encode education: %w", err)
	}
	return string(expJSON), string(eduJSON), nil
}

// Create inserts a new profile. is_default always starts false; the only way
// to mark a default is SetDefault.
func (r *cvProfileRepo) Create(ctx context.Context, p *domain.CVProfile) error {
	expJSON, eduJSON, err := encodeEntries(p.Experience, p.Education)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO cv_profiles (user_id, title, summary, experience, education, skills, languages, certifications, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, $6, $7, $8, FALSE, NOW(), NOW())
		RETURNING id, is_default, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		p.UserID, p.Title, p.Summary, expJSON, eduJSON,
		pq.Array(p.Skills), pq.Array(p.Languages), pq.Array(p.Certifications),
	).Scan(&p.ID, &p.IsDefault, &p.CreatedAt, &p.UpdatedAt)
}

// Update applies a partial update and returns the fresh row. Nil fields in
// the update are preserved via COALESCE-style guards.
func (r *cvProfileRepo) Update(ctx context.Context, ownerID string, profileID int64, u *domain.CVProfileUpdate) (*domain.CVProfile, error) {
	var expJSON, eduJSON *string
	if u.Experience != nil {
		b, err := json.Marshal(*u.Experience)
		if err != nil {
			return nil, fmt.Errorf("encode experience: %w", err)
		}
		s := string(b)
		expJSON = &s
	}
	if u.Education != nil {
		b, err := json.Marshal(*u.Education)
		if err != nil {
			return nil, fmt.Errorf("encode education: %w", err)
		}
		s := string(b)
		eduJSON = &s
	}

	var skills, languages, certifications interface{}
	if u.Skills != nil {
		skills = pq.Array(*u.Skills)
	}
	if u.Languages != nil {
		languages = pq.Array(*u.Languages)
	}
	if u.Certifications != nil {
		certifications = pq.Array(*u.Certifications)
	}

	query := `
		UPDATE cv_profiles SET
			title          = COALESCE($3, title),
			summary        = COALESCE($4, summary),
			experience     = COALESCE($5::jsonb, experience),
			education      = COALESCE($6::jsonb, education),
			skills         = COALESCE($7, skills),
			languages      = COALESCE($8, languages),
			certifications = COALESCE($9, certifications),
			updated_at     = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + cvProfileColumns

	row := r.db.QueryRow(ctx, query, profileID, ownerID,
		u.Title, u.Summary, expJSON, eduJSON, skills, languages, certifications)

	p, scanErr := scanProfile(row)
	if scanErr != nil {
		if errors.Is(scanErr, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, scanErr
	}
	return p, nil
}

func (r *cvProfileRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.CVProfile, error) {
	query := `SELECT ` + cvProfileColumns + ` FROM cv_profiles WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []domain.CVProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (r *cvProfileRepo) GetOwned(ctx context.Context, ownerID string, profileID int64) (*domain.CVProfile, error) {
	query := `SELECT ` + cvProfileColumns + ` FROM cv_profiles WHERE id = $1 AND user_id = $2`

	p, err := scanProfile(r.db.QueryRow(ctx, query, profileID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *cvProfileRepo) DeleteOwned(ctx context.Context, ownerID string, profileID int64) error {
	// If the deleted profile was the default, no other profile is promoted:
	// the user keeps zero defaults until they pick one.
	result, err := r.db.Exec(ctx, `DELETE FROM cv_profiles WHERE id = $1 AND user_id = $2`, profileID, ownerID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// unsetOtherDefaultsQuery scans every profile of the owner, not just the
// current default. Under READ COMMITTED, a concurrent transaction's freshly
// promoted default is invisible to an `is_default`-filtered statement: its
// re-check after the row lock releases only covers rows the filter matched,
// so two racing calls could each keep the other's default. Scoping by owner
// alone makes the re-check land on the updated row and unset it.
const unsetOtherDefaultsQuery = `
	UPDATE cv_profiles SET is_default = FALSE, updated_at = NOW()
	WHERE user_id = $1 AND id <> $2`

// SetDefault runs "unset all, then set one" inside a single transaction so
// two concurrent calls for the same user can never leave two defaults.
func (r *cvProfileRepo) SetDefault(ctx context.Context, ownerID string, profileID int64) (*domain.CVProfile, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, unsetOtherDefaultsQuery, ownerID, profileID)
	if err != nil {
		return nil, fmt.Errorf("unset defaults: %w", err)
	}

	query := `
		UPDATE cv_profiles SET is_default = TRUE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + cvProfileColumns

	p, err := scanProfile(tx.QueryRow(ctx, query, profileID, ownerID))
	if err != nil {
		// Target missing or not owned: the rollback restores the previous
		// default, nothing is altered.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}
