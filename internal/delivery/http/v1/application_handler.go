package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/delivery/http/response"
	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/domain"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

// NewApplicationHandler registers application routes
func NewApplicationHandler(r *gin.RouterGroup, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	r.POST("/jobs/:jobId/apply", handler.ApplyToJob)
	applications := r.Group("/applications")
	{
		applications.GET("", handler.ListMyApplications)
		applications.GET("/:id", handler.GetMyApplication)
	}
}

// ApplyToJobRequest is the request payload for applying to a job
type ApplyToJobRequest struct {
	CVProfileID *int64  `json:"cv_profile_id"`
	CoverLetter *string `json:"cover_letter"`
	DocumentIDs []int64 `json:"document_ids"`
}

// ApplyToJob submits an application. Document attachments are best-effort:
// the response carries rejected_document_ids when some could not be
// attached, while the application itself still stands.
func (h *ApplicationHandler) ApplyToJob(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	jobID, err := parseIDParam(c, "jobId")
	if err != nil {
		c.Error(err)
		return
	}

	// Every field is optional, so a missing body means an empty request.
	var req ApplyToJobRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	result, err := h.applicationUC.ApplyToJob(c.Request.Context(), userID, jobID, &domain.ApplyInput{
		CVProfileID: req.CVProfileID,
		CoverLetter: req.CoverLetter,
		DocumentIDs: req.DocumentIDs,
	})
	if err != nil {
		c.Error(err)
		return
	}

	msg := "Application submitted successfully"
	if len(result.RejectedDocumentIDs) > 0 {
		msg = "Application submitted, some documents could not be attached"
	}
	response.Success(c, http.StatusCreated, msg, result)
}

// ListMyApplications returns the current user's applications with joined
// job, profile, and document data.
func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	applications, err := h.applicationUC.ListMyApplications(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications retrieved", applications)
}

// GetMyApplication returns one of the current user's applications.
func (h *ApplicationHandler) GetMyApplication(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	applicationID, err := parseIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	application, err := h.applicationUC.GetMyApplication(c.Request.Context(), userID, applicationID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application retrieved", application)
}
