package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"groupnet/memberhub/internal/service"
	"groupnet/memberhub/pkg/response"
)

var errInvalidIntentID = errors.New("invalid intent id")

// respondError maps domain errors onto HTTP statuses. Anything else is
// logged and reported as a generic 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var domainErr *service.Error
	if errors.As(err, &domainErr) {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.NotFound(c, domainErr.Message)
			return
		case errors.Is(err, service.ErrInvalidState):
			response.UnprocessableEntity(c, domainErr.Message)
			return
		case errors.Is(err, service.ErrConflict):
			response.Conflict(c, domainErr.Message)
			return
		}
	}

	_ = c.Error(err)
	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
		zap.Error(err),
	)
	response.InternalError(c, "internal error")
}

func intentIDParam(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errInvalidIntentID
	}
	return id, nil
}
