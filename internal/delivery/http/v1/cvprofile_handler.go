package v1

import (
	"net/http"
	"strconv"

	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/delivery/http/response"
	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/domain"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CVProfileHandler struct {
	profileUC domain.CVProfileUsecase
}

// NewCVProfileHandler registers CV profile routes
func NewCVProfileHandler(r *gin.RouterGroup, profileUC domain.CVProfileUsecase) {
	handler := &CVProfileHandler{profileUC: profileUC}

	profiles := r.Group("/cv-profiles")
	{
		profiles.GET("", handler.ListProfiles)
		profiles.POST("", handler.CreateProfile)
		profiles.GET("/:id", handler.GetProfile)
		profiles.PUT("/:id", handler.UpdateProfile)
		profiles.DELETE("/:id", handler.DeleteProfile)
		profiles.POST("/:id/set-default", handler.SetDefaultProfile)
	}
}

// CreateProfileRequest is the request payload for creating a CV profile
type CreateProfileRequest struct {
	Title          string                   `json:"title" binding:"required"`
	Summary        *string                  `json:"summary"`
	Experience     []domain.ExperienceEntry `json:"experience"`
	Education      []domain.EducationEntry  `json:"education"`
	Skills         []string                 `json:"skills"`
	Languages      []string                 `json:"languages"`
	Certifications []string                 `json:"certifications"`
}

// ListProfiles returns all CV profiles owned by the current user.
func (h *CVProfileHandler) ListProfiles(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	profiles, err := h.profileUC.ListProfiles(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "CV profiles retrieved", profiles)
}

// CreateProfile creates a new CV profile for the current user.
func (h *CVProfileHandler) CreateProfile(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	profile := &domain.CVProfile{
		Title:          req.Title,
		Summary:        req.Summary,
		Experience:     req.Experience,
		Education:      req.Education,
		Skills:         req.Skills,
		Languages:      req.Languages,
		Certifications: req.Certifications,
	}

	created, err := h.profileUC.CreateProfile(c.Request.Context(), userID, profile)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "CV profile created", created)
}

// GetProfile returns one of the current user's CV profiles.
func (h *CVProfileHandler) GetProfile(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	profileID, err := parseIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	profile, err := h.profileUC.GetProfile(c.Request.Context(), userID, profileID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "CV profile retrieved", profile)
}

// UpdateProfile applies a partial update to one of the current user's profiles.
func (h *CVProfileHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	profileID, err := parseIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var update domain.CVProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	profile, err := h.profileUC.UpdateProfile(c.Request.Context(), userID, profileID, &update)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "CV profile updated", profile)
}

// DeleteProfile removes one of the current user's profiles.
func (h *CVProfileHandler) DeleteProfile(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	profileID, err := parseIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.profileUC.DeleteProfile(c.Request.Context(), userID, profileID); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "CV profile deleted", nil)
}

// SetDefaultProfile atomically marks one profile as the user's default.
func (h *CVProfileHandler) SetDefaultProfile(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	profileID, err := parseIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	profile, err := h.profileUC.SetDefaultProfile(c.Request.Context(), userID, profileID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Default CV profile updated", profile)
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.BadRequest("Invalid " + name + " parameter")
	}
	return id, nil
}
