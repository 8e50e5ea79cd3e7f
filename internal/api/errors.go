package api

import (
	"errors"
	"net/http"

	ierr "go-firestore-qna/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, ierr.NotFound):
		return http.StatusNotFound
	case errors.Is(err, ierr.InvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ierr.InvalidState):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ierr.ExhaustedPool), errors.Is(err, ierr.Superseded):
		return http.StatusConflict
	case errors.Is(err, ierr.Unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Str("requestId", c.GetString(requestIdKey)).Msgf("%s %s", c.Request.Method, c.FullPath())
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}
