package domain

import (
	"context"
	"io"
	"time"
)

// Document type constants
const (
	DocumentTypeCV          = "cv"
	DocumentTypePortfolio   = "portfolio"
	DocumentTypeCertificate = "certificate"
	DocumentTypeTranscript  = "transcript"
	DocumentTypeOther       = "other"
)

// ValidDocumentTypes is the whitelist of accepted document types.
var ValidDocumentTypes = map[string]bool{
	DocumentTypeCV:          true,
	DocumentTypePortfolio:   true,
	DocumentTypeCertificate: true,
	DocumentTypeTranscript:  true,
	DocumentTypeOther:       true,
}

// Document is the metadata record for an uploaded binary file. The bytes
// themselves live in the blob store under StorageKey; this row is the single
// source of truth for whether the document exists.
type Document struct {
	ID         int64     `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Type       string    `json:"type"`
	FileName   string    `json:"file_name"`
	StorageKey string    `json:"-"` // opaque blob key, never exposed to clients
	FileSize   int64     `json:"file_size"`
	MimeType   string    `json:"mime_type"`
	IsPublic   bool      `json:"is_public"`
	CreatedAt  time.Time `json:"created_at"`
}

// DocumentUploadInput carries the file stream plus metadata into the usecase.
// Multipart parsing stays in the HTTP layer.
type DocumentUploadInput struct {
	Type     string
	FileName string
	MimeType string
	Size     int64
	IsPublic bool
	Content  io.Reader
}

// DocumentDownload couples the metadata row with the blob stream.
type DocumentDownload struct {
	Document *Document
	Content  io.ReadCloser
}

// DocumentRepository defines data access methods for document metadata.
type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) error
	ListByOwner(ctx context.Context, ownerID string) ([]Document, error)
	// GetVisible returns the document only when the requester owns it or it
	// is public. A private document of another user yields ErrNotFound, not
	// a forbidden error, so existence is not leaked.
	GetVisible(ctx context.Context, requesterID string, documentID int64) (*Document, error)
	// GetOwned returns the document only for its owner.
	GetOwned(ctx context.Context, ownerID string, documentID int64) (*Document, error)
	DeleteOwned(ctx context.Context, ownerID string, documentID int64) error
}

// DocumentUsecase defines business logic for uploaded documents.
type DocumentUsecase interface {
	Upload(ctx context.Context, ownerID string, input *DocumentUploadInput) (*Document, error)
	ListMyDocuments(ctx context.Context, ownerID string) ([]Document, error)
	Download(ctx context.Context, requesterID string, documentID int64) (*DocumentDownload, error)
	Delete(ctx context.Context, ownerID string, documentID int64) error
}
