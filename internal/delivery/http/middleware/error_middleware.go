package middleware

import (
	"errors"
	"net/http"

	"github.com/albirrudigital/infopekerjaan.id-sub002/internal/delivery/http/response"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/apperror"
	"github.com/albirrudigital/infopekerjaan.id-sub002/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				// The wrapped cause stays server-side; clients only ever see
				// the coded message.
				if appErr.Err != nil {
					logger.Log.Error("request failed",
						"path", c.FullPath(), "code", appErr.Code, "error", appErr.Err)
				}
				response.Error(c, appErr.Code, appErr.Message, nil)
			} else {
				logger.Log.Error("unhandled error", "path", c.FullPath(), "error", err)
				response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
			}
		}
	}
}
