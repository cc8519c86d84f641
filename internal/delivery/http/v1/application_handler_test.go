package v1_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/delivery/http/middleware"
	v1 "github.com/albirrudigital/infopekerjaan.id-sub002/internal/delivery/http/v1"
	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/domain"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockApplicationUsecase struct {
	mock.Mock
}

func (m *MockApplicationUsecase) ApplyToJob(ctx context.Context, applicantID string, jobID int64, input *domain.ApplyInput) (*domain.ApplyResult, error) {
	args := m.Called(ctx, applicantID, jobID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApplyResult), args.Error(1)
}

func (m *MockApplicationUsecase) ListMyApplications(ctx context.Context, applicantID string) ([]domain.JobApplication, error) {
	args := m.Called(ctx, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JobApplication), args.Error(1)
}

func (m *MockApplicationUsecase) GetMyApplication(ctx context.Context, applicantID string, applicationID int64) (*domain.JobApplication, error) {
	args := m.Called(ctx, applicantID, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobApplication), args.Error(1)
}

func newApplicationRouter(uc domain.ApplicationUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger.Init()

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	grp := r.Group("")
	grp.Use(func(c *gin.Context) {
		c.Set(string(domain.KeyUserID), "user1")
		c.Next()
	})
	v1.NewApplicationHandler(grp, uc)
	return r
}

func TestApplyToJobRequestBody(t *testing.T) {
	t.Run("Should accept a request without a body", func(t *testing.T) {
		uc := new(MockApplicationUsecase)
		uc.On("ApplyToJob", mock.Anything, "user1", int64(42), mock.AnythingOfType("*domain.ApplyInput")).
			Return(&domain.ApplyResult{Application: &domain.JobApplication{ID: 1, JobID: 42}}, nil).
			Run(func(args mock.Arguments) {
				input := args.Get(3).(*domain.ApplyInput)
				assert.Nil(t, input.CVProfileID)
				assert.Nil(t, input.CoverLetter)
				assert.Empty(t, input.DocumentIDs)
			})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/jobs/42/apply", nil)
		newApplicationRouter(uc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		uc.AssertExpectations(t)
	})

	t.Run("Should still reject malformed JSON", func(t *testing.T) {
		uc := new(MockApplicationUsecase)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/jobs/42/apply", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		newApplicationRouter(uc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		uc.AssertNotCalled(t, "ApplyToJob", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
