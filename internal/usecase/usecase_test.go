package usecase_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/domain"
	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/usecase"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/apperror"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

// Mock Repositories

type MockCVProfileRepo struct {
	mock.Mock
}

func (m *MockCVProfileRepo) Create(ctx context.Context, profile *domain.CVProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockCVProfileRepo) Update(ctx context.Context, ownerID string, profileID int64, update *domain.CVProfileUpdate) (*domain.CVProfile, error) {
	args := m.Called(ctx, ownerID, profileID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CVProfile), args.Error(1)
}

func (m *MockCVProfileRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.CVProfile, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CVProfile), args.Error(1)
}

func (m *MockCVProfileRepo) GetOwned(ctx context.Context, ownerID string, profileID int64) (*domain.CVProfile, error) {
	args := m.Called(ctx, ownerID, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CVProfile), args.Error(1)
}

func (m *MockCVProfileRepo) DeleteOwned(ctx context.Context, ownerID string, profileID int64) error {
	return m.Called(ctx, ownerID, profileID).Error(0)
}

func (m *MockCVProfileRepo) SetDefault(ctx context.Context, ownerID string, profileID int64) (*domain.CVProfile, error) {
	args := m.Called(ctx, ownerID, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CVProfile), args.Error(1)
}

type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) Create(ctx context.Context, doc *domain.Document) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockDocumentRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) GetVisible(ctx context.Context, requesterID string, documentID int64) (*domain.Document, error) {
	args := m.Called(ctx, requesterID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) GetOwned(ctx context.Context, ownerID string, documentID int64) (*domain.Document, error) {
	args := m.Called(ctx, ownerID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) DeleteOwned(ctx context.Context, ownerID string, documentID int64) error {
	return m.Called(ctx, ownerID, documentID).Error(0)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.JobApplication) error {
	args := m.Called(ctx, app)
	if args.Error(0) == nil {
		app.ID = 101
	}
	return args.Error(0)
}

func (m *MockApplicationRepo) AttachDocument(ctx context.Context, applicationID int64, applicantID string, documentID int64) error {
	return m.Called(ctx, applicationID, applicantID, documentID).Error(0)
}

func (m *MockApplicationRepo) ListByApplicant(ctx context.Context, applicantID string) ([]domain.JobApplication, error) {
	args := m.Called(ctx, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JobApplication), args.Error(1)
}

func (m *MockApplicationRepo) GetOwned(ctx context.Context, applicantID string, applicationID int64) (*domain.JobApplication, error) {
	args := m.Called(ctx, applicantID, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobApplication), args.Error(1)
}

func (m *MockApplicationRepo) CheckExists(ctx context.Context, jobID int64, applicantID string) (bool, error) {
	args := m.Called(ctx, jobID, applicantID)
	return args.Bool(0), args.Error(1)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, r io.Reader, suggestedExt string) (string, int64, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(suggestedExt)
	return args.String(0), int64(len(data)), args.Error(1)
}

func (m *MockBlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	return m.Called(key).Error(0)
}

func pdfUpload(size int) *domain.DocumentUploadInput {
	content := "%PDF-1.4\n" + strings.Repeat("a", size)
	return &domain.DocumentUploadInput{
		Type:     domain.DocumentTypeCV,
		FileName: "resume.pdf",
		MimeType: "application/pdf",
		Size:     int64(len(content)),
		IsPublic: false,
		Content:  strings.NewReader(content),
	}
}

func appErrCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func TestUploadDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("Should store blob then metadata on valid PDF", func(t *testing.T) {
		repo := new(MockDocumentRepo)
		store := new(MockBlobStore)
		uc := usecase.NewDocumentUsecase(repo, store, 5<<20, time.Second)

		store.On("Put", ".pdf").Return("key-1.pdf", nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil).Run(func(args mock.Arguments) {
			d := args.Get(1).(*domain.Document)
			assert.Equal(t, "user1", d.OwnerID)
			assert.Equal(t, "key-1.pdf", d.StorageKey)
			assert.Equal(t, "resume.pdf", d.FileName)
			assert.Greater(t, d.FileSize, int64(0))
		})

		doc, err := uc.Upload(ctx, "user1", pdfUpload(100))
		assert.NoError(t, err)
		assert.Equal(t, "key-1.pdf", doc.StorageKey)
		store.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("Should reject unknown document type before any write", func(t *testing.T) {
		repo := new(MockDocumentRepo)
		store := new(MockBlobStore)
		uc := usecase.NewDocumentUsecase(repo, store, 5<<20, time.Second)

		input := pdfUpload(10)
		input.Type = "selfie"
		_, err := uc.Upload(ctx, "user1", input)
		assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
		store.AssertNotCalled(t, "Put", mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should reject disallowed MIME type", func(t *testing.T) {
		repo := new(MockDocumentRepo)
		store := new(MockBlobStore)
		uc := usecase.NewDocumentUsecase(repo, store, 5<<20, time.Second)

		input := &domain.DocumentUploadInput{
			Type:     domain.DocumentTypeCV,
			FileName: "resume.exe",
			MimeType: "application/x-msdownload",
			Size:     10,
			Content:  strings.NewReader("MZ00000000"),
		}
		_, err := uc.Upload(ctx, "user1", input)
		assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
		store.AssertNotCalled(t, "Put", mock.Anything)
	})

	t.Run("Should reject content that does not match extension", func(t *testing.T) {
		repo := new(MockDocumentRepo)
		store := new(MockBlobStore)
		uc := usecase.NewDocumentUsecase(repo, store, 5<<20, time.Second)

		input := &domain.DocumentUploadInput{
			Type:     domain.DocumentTypeCV,
			FileName: "resume.pdf",
			MimeType: "application/pdf",
			Size:     20,
			Content:  strings.NewReader("not a real pdf file!"),
		}
		_, err := uc.Upload(ctx, "user1", input)
		assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
		store.AssertNotCalled(t, "Put", mock.Anything)
	})

	t.Run("Should reject oversized file before any write", func(t *testing.T) {
		repo := new(MockDocumentRepo)
		store := new(MockBlobStore)
		uc := usecase.NewDocumentUsecase(repo, store, 64, time.Second)

		input := pdfUpload(100)
		_, err := uc.Upload(ctx, "user1", input)
		assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
		store.AssertNotCalled(t, "Put", mock.Anything)
	})

	t.Run("Should surface StorageFailure when blob put fails", func(t *testing.T) {
		repo := new(MockDocumentRepo)
		store := new(MockBlobStore)
		uc := usecase.NewDocumentUsecase(repo, store, 5<<20, time.Second)

		store.On("Put", ".pdf").Return("", errors.New("connection refused"))

		_, err := uc.Upload(ctx, "user1", pdfUpload(10))
		assert.Equal(t, http.StatusServiceUnavailable, appErrCode(t, err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should delete orphaned blob when metadata insert fails", func(t *testing.T) {
		repo := new(MockDocumentRepo)
		store := new(MockBlobStore)
		uc := usecase.NewDocumentUsecase(repo, store, 5<<20, time.Second)

		store.On("Put", ".pdf").Return("key-orphan.pdf", nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))
		store.On("Delete", "key-orphan.pdf").Return(nil)

		_, err := uc.Upload(ctx, "user1", pdfUpload(10))
		assert.Equal(t, http.StatusInternalServerError, appErrCode(t, err))
		store.AssertCalled(t, "Delete", "key-orphan.pdf")
	})
}

func TestDeleteDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("Should delete metadata before blob", func(t *testing.T) {
		repo := new(MockDocumentRepo)
		store := new(MockBlobStore)
		uc := usecase.NewDocumentUsecase(repo, store, 5<<20, time.Second)

		doc := &domain.Document{ID: 7, OwnerID: "user1", StorageKey: "key-7.pdf"}
		repo.On("GetOwned", mock.Anything, "user1", int64(7)).Return(doc, nil)
		repo.On("DeleteOwned", mock.Anything, "user1", int64(7)).Return(nil)
		store.On("Delete", "key-7.pdf").Return(nil)

		err := uc.Delete(ctx, "user1", 7)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("Should still succeed when blob delete fails", func(t *testing.T) {
		repo := new(MockDocumentRepo)
		store := new(MockBlobStore)
		uc := usecase.NewDocumentUsecase(repo, store, 5<<20, time.Second)

		doc := &domain.Document{ID: 7, OwnerID: "user1", StorageKey: "key-7.pdf"}
		repo.On("GetOwned", mock.Anything, "user1", int64(7)).Return(doc, nil)
		repo.On("DeleteOwned", mock.Anything, "user1", int64(7)).Return(nil)
		store.On("Delete", "key-7.pdf").Return(errors.New("s3 unreachable"))

		err := uc.Delete(ctx, "user1", 7)
		assert.NoError(t, err)
	})

	t.Run("Should report NotFound for another user's document", func(t *testing.T) {
		repo := new(MockDocumentRepo)
		store := new(MockBlobStore)
		uc := usecase.NewDocumentUsecase(repo, store, 5<<20, time.Second)

		repo.On("GetOwned", mock.Anything, "user2", int64(7)).Return(nil, domain.ErrNotFound)

		err := uc.Delete(ctx, "user2", 7)
		assert.Equal(t, http.StatusNotFound, appErrCode(t, err))
		repo.AssertNotCalled(t, "DeleteOwned", mock.Anything, mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "Delete", mock.Anything)
	})
}

func TestDownloadDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return NotFound when visibility query misses", func(t *testing.T) {
		repo := new(MockDocumentRepo)
		store := new(MockBlobStore)
		uc := usecase.NewDocumentUsecase(repo, store, 5<<20, time.Second)

		repo.On("GetVisible", mock.Anything, "stranger", int64(9)).Return(nil, domain.ErrNotFound)

		_, err := uc.Download(ctx, "stranger", 9)
		assert.Equal(t, http.StatusNotFound, appErrCode(t, err))
		store.AssertNotCalled(t, "Get", mock.Anything)
	})

	t.Run("Should stream blob for visible document", func(t *testing.T) {
		repo := new(MockDocumentRepo)
		store := new(MockBlobStore)
		uc := usecase.NewDocumentUsecase(repo, store, 5<<20, time.Second)

		doc := &domain.Document{ID: 9, OwnerID: "user1", StorageKey: "key-9.pdf", FileName: "resume.pdf"}
		repo.On("GetVisible", mock.Anything, "user1", int64(9)).Return(doc, nil)
		store.On("Get", "key-9.pdf").Return(io.NopCloser(strings.NewReader("%PDF-1.4")), nil)

		download, err := uc.Download(ctx, "user1", 9)
		assert.NoError(t, err)
		data, _ := io.ReadAll(download.Content)
		assert.Equal(t, "%PDF-1.4", string(data))
	})
}

func TestApplyToJob(t *testing.T) {
	ctx := context.Background()

	newApplicationUC := func(appRepo *MockApplicationRepo, cvRepo *MockCVProfileRepo, docRepo *MockDocumentRepo, jobRepo *MockJobRepo) domain.ApplicationUsecase {
		return usecase.NewApplicationUsecase(appRepo, cvRepo, docRepo, jobRepo)
	}

	t.Run("Should fail when job does not exist", func(t *testing.T) {
		appRepo, cvRepo, docRepo, jobRepo := new(MockApplicationRepo), new(MockCVProfileRepo), new(MockDocumentRepo), new(MockJobRepo)
		uc := newApplicationUC(appRepo, cvRepo, docRepo, jobRepo)

		jobRepo.On("GetByID", mock.Anything, int64(42)).Return(nil, domain.ErrNotFound)

		_, err := uc.ApplyToJob(ctx, "user1", 42, &domain.ApplyInput{})
		assert.Equal(t, http.StatusNotFound, appErrCode(t, err))
		appRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should reject duplicate application", func(t *testing.T) {
		appRepo, cvRepo, docRepo, jobRepo := new(MockApplicationRepo), new(MockCVProfileRepo), new(MockDocumentRepo), new(MockJobRepo)
		uc := newApplicationUC(appRepo, cvRepo, docRepo, jobRepo)

		jobRepo.On("GetByID", mock.Anything, int64(42)).Return(&domain.Job{ID: 42}, nil)
		appRepo.On("CheckExists", mock.Anything, int64(42), "user1").Return(true, nil)

		_, err := uc.ApplyToJob(ctx, "user1", 42, &domain.ApplyInput{})
		assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
		appRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should forbid another user's CV profile and create nothing", func(t *testing.T) {
		appRepo, cvRepo, docRepo, jobRepo := new(MockApplicationRepo), new(MockCVProfileRepo), new(MockDocumentRepo), new(MockJobRepo)
		uc := newApplicationUC(appRepo, cvRepo, docRepo, jobRepo)

		profileID := int64(5)
		jobRepo.On("GetByID", mock.Anything, int64(42)).Return(&domain.Job{ID: 42}, nil)
		appRepo.On("CheckExists", mock.Anything, int64(42), "user1").Return(false, nil)
		cvRepo.On("GetOwned", mock.Anything, "user1", profileID).Return(nil, domain.ErrNotFound)

		_, err := uc.ApplyToJob(ctx, "user1", 42, &domain.ApplyInput{CVProfileID: &profileID})
		assert.Equal(t, http.StatusForbidden, appErrCode(t, err))
		appRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should report rejected documents as partial success", func(t *testing.T) {
		appRepo, cvRepo, docRepo, jobRepo := new(MockApplicationRepo), new(MockCVProfileRepo), new(MockDocumentRepo), new(MockJobRepo)
		uc := newApplicationUC(appRepo, cvRepo, docRepo, jobRepo)

		jobRepo.On("GetByID", mock.Anything, int64(42)).Return(&domain.Job{ID: 42}, nil)
		appRepo.On("CheckExists", mock.Anything, int64(42), "user1").Return(false, nil)
		appRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.JobApplication")).Return(nil)
		appRepo.On("AttachDocument", mock.Anything, int64(101), "user1", int64(1)).Return(nil)
		appRepo.On("AttachDocument", mock.Anything, int64(101), "user1", int64(2)).Return(nil)
		// Document 3 belongs to user B; ownership re-check rejects it even
		// though the document is public.
		appRepo.On("AttachDocument", mock.Anything, int64(101), "user1", int64(3)).Return(domain.ErrNotFound)
		appRepo.On("GetOwned", mock.Anything, "user1", int64(101)).Return(&domain.JobApplication{
			ID:          101,
			ApplicantID: "user1",
			JobID:       42,
			Status:      domain.ApplicationStatusPending,
			Documents:   []domain.Document{{ID: 1}, {ID: 2}},
		}, nil)

		result, err := uc.ApplyToJob(ctx, "user1", 42, &domain.ApplyInput{DocumentIDs: []int64{1, 2, 3}})
		assert.NoError(t, err)
		assert.Equal(t, []int64{3}, result.RejectedDocumentIDs)
		assert.Len(t, result.Application.Documents, 2)
	})
}

func TestCVProfileUsecase(t *testing.T) {
	ctx := context.Background()
	validate := validator.New()

	t.Run("Should force ownership and clear is_default on create", func(t *testing.T) {
		repo := new(MockCVProfileRepo)
		uc := usecase.NewCVProfileUsecase(repo, validate)

		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.CVProfile")).Return(nil).Run(func(args mock.Arguments) {
			p := args.Get(1).(*domain.CVProfile)
			assert.Equal(t, "user1", p.UserID)
			assert.False(t, p.IsDefault)
		})

		_, err := uc.CreateProfile(ctx, "user1", &domain.CVProfile{
			UserID:    "hacker_try",
			Title:     "Backend Engineer",
			IsDefault: true,
		})
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Should fail validation when title is missing", func(t *testing.T) {
		repo := new(MockCVProfileRepo)
		uc := usecase.NewCVProfileUsecase(repo, validate)

		_, err := uc.CreateProfile(ctx, "user1", &domain.CVProfile{})
		assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should map repository miss to NotFound on set-default", func(t *testing.T) {
		repo := new(MockCVProfileRepo)
		uc := usecase.NewCVProfileUsecase(repo, validate)

		repo.On("SetDefault", mock.Anything, "user1", int64(9)).Return(nil, domain.ErrNotFound)

		_, err := uc.SetDefaultProfile(ctx, "user1", 9)
		assert.Equal(t, http.StatusNotFound, appErrCode(t, err))
	})
}
