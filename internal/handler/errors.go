package handler

import (
	"errors"
	"net/http"

	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeServiceError maps typed domain errors onto HTTP status codes. All five
// error kinds surface to the caller; nothing is swallowed or retried here.
func writeServiceError(c *gin.Context, err error) {
	var (
		validationErr *service.ValidationError
		transitionErr *service.InvalidTransitionError
		permissionErr *service.PermissionDeniedError
		concurrentErr *service.ConcurrentModificationError
		storageErr    *service.StorageUnavailableError
		notFoundErr   *service.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	case errors.As(err, &permissionErr):
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, err.Error()))
	case errors.As(err, &concurrentErr):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	case errors.As(err, &storageErr):
		c.JSON(http.StatusServiceUnavailable, response.Error(http.StatusServiceUnavailable, err.Error()))
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	}
}
