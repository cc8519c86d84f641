package usecase

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/domain"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/apperror"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/blob"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/logger"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/validation"
)

type documentUsecase struct {
	repo           domain.DocumentRepository
	store          blob.Store
	maxUploadBytes int64
	blobTimeout    time.Duration
}

// NewDocumentUsecase creates a new document usecase. The size ceiling and the
// blob-call timeout come from configuration.
func NewDocumentUsecase(repo domain.DocumentRepository, store blob.Store, maxUploadBytes int64, blobTimeout time.Duration) domain.DocumentUsecase {
	if blobTimeout <= 0 {
		blobTimeout = 15 * time.Second
	}
	return &documentUsecase{
		repo:           repo,
		store:          store,
		maxUploadBytes: maxUploadBytes,
		blobTimeout:    blobTimeout,
	}
}

// Upload validates, writes the blob, then the metadata row. The blob store
// and the relational store share no transaction, so the one failure mode
// needing compensation is "blob written, row failed": the orphaned blob is
// deleted best-effort before surfacing the error.
func (u *documentUsecase) Upload(ctx context.Context, ownerID string, input *domain.DocumentUploadInput) (*domain.Document, error) {
	if !domain.ValidDocumentTypes[input.Type] {
		return nil, apperror.BadRequest("invalid document type: " + input.Type)
	}
	if input.Size > u.maxUploadBytes {
		return nil, apperror.BadRequest(fmt.Sprintf("file exceeds the %d byte upload limit", u.maxUploadBytes))
	}

	// Peek the head for magic-byte sniffing without consuming the stream.
	br := bufio.NewReader(input.Content)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, apperror.BadRequest("could not read uploaded file")
	}

	check := validation.ValidateDocumentFile(input.FileName, head, input.MimeType)
	if !check.Valid {
		return nil, apperror.BadRequest(check.Error)
	}

	// Guard the declared size too: the reader is capped one byte past the
	// ceiling so an understated Content-Length cannot smuggle a larger file.
	limited := io.LimitReader(br, u.maxUploadBytes+1)

	putCtx, cancel := context.WithTimeout(ctx, u.blobTimeout)
	defer cancel()

	key, size, err := u.store.Put(putCtx, limited, check.Extension)
	if err != nil {
		return nil, apperror.Unavailable("file storage is temporarily unavailable", err)
	}
	if size > u.maxUploadBytes {
		u.deleteBlobQuietly(key)
		return nil, apperror.BadRequest(fmt.Sprintf("file exceeds the %d byte upload limit", u.maxUploadBytes))
	}

	doc := &domain.Document{
		OwnerID:    ownerID,
		Type:       input.Type,
		FileName:   input.FileName,
		StorageKey: key,
		FileSize:   size,
		MimeType:   input.MimeType,
		IsPublic:   input.IsPublic,
	}

	if err := u.repo.Create(ctx, doc); err != nil {
		// Compensate: without a metadata row the blob is unreachable garbage.
		u.deleteBlobQuietly(key)
		return nil, apperror.Internal(fmt.Errorf("persist document metadata: %w", err))
	}

	return doc, nil
}

func (u *documentUsecase) ListMyDocuments(ctx context.Context, ownerID string) ([]domain.Document, error) {
	docs, err := u.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return docs, nil
}

// Download streams a document the requester is allowed to see: their own, or
// anyone's public one.
func (u *documentUsecase) Download(ctx context.Context, requesterID string, documentID int64) (*domain.DocumentDownload, error) {
	doc, err := u.repo.GetVisible(ctx, requesterID, documentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Document not found")
		}
		return nil, apperror.Internal(err)
	}

	getCtx, cancel := context.WithTimeout(ctx, u.blobTimeout)
	defer cancel()

	content, err := u.store.Get(getCtx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			// A metadata row without a blob is a consistency bug, not a user
			// error. Log loudly and fail.
			logger.Log.Error("document blob missing for metadata row",
				"document_id", doc.ID, "storage_key", doc.StorageKey)
			return nil, apperror.Internal(fmt.Errorf("blob missing for document %d", doc.ID))
		}
		return nil, apperror.Unavailable("file storage is temporarily unavailable", err)
	}

	return &domain.DocumentDownload{Document: doc, Content: content}, nil
}

// Delete removes the metadata row first, then the blob. A crash between the
// two steps leaves only an orphaned blob, which is harmless and cleanable
// out of band; the reverse order could leave a row pointing at nothing.
func (u *documentUsecase) Delete(ctx context.Context, ownerID string, documentID int64) error {
	doc, err := u.repo.GetOwned(ctx, ownerID, documentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Document not found")
		}
		return apperror.Internal(err)
	}

	if err := u.repo.DeleteOwned(ctx, ownerID, documentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Document not found")
		}
		return apperror.Internal(err)
	}

	delCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.blobTimeout)
	defer cancel()

	if err := u.store.Delete(delCtx, doc.StorageKey); err != nil {
		// The document is gone from the user's point of view; the stray blob
		// is an operational cleanup concern.
		logger.Log.Warn("orphaned blob left behind after document delete",
			"document_id", documentID, "storage_key", doc.StorageKey, "error", err)
	}
	return nil
}

// deleteBlobQuietly is the best-effort compensation path for upload failures.
func (u *documentUsecase) deleteBlobQuietly(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), u.blobTimeout)
	defer cancel()
	if err := u.store.Delete(ctx, key); err != nil {
		logger.Log.Warn("failed to clean up orphaned blob", "storage_key", key, "error", err)
	}
}
