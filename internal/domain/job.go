package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors
var ErrNotFound = errors.New("resource not found")

// Job is the posting an application points at. Job management itself is an
// external collaborator; this core only needs enough to validate and join.
type Job struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	CompanyName string    `json:"company_name"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// JobRepository exposes the lookups the application pipeline needs.
type JobRepository interface {
	GetByID(ctx context.Context, id int64) (*Job, error)
}
