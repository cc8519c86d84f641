package v1

import (
	"net/http"

	"github.com/albirrudigital/infopekerjaan.id-sub002/config"
	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/delivery/http/middleware"
	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/delivery/http/response"
	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/domain"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	CVProfileUC   domain.CVProfileUsecase
	DocumentUC    domain.DocumentUsecase
	ApplicationUC domain.ApplicationUsecase
	UploadLimiter *ratelimit.UploadLimiter
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Config))
	{
		NewCVProfileHandler(protected, deps.CVProfileUC)
		NewDocumentHandler(protected, deps.DocumentUC, deps.UploadLimiter, deps.Config.MaxUploadBytes)
		NewApplicationHandler(protected, deps.ApplicationUC)
	}

	return r
}
