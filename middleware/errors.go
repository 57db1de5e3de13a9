package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/wikismart-edu-backend/apperr"
	"github.com/vnkhanh/wikismart-edu-backend/logging"
)

type ErrorBody struct {
	Code    apperr.Kind `json:"code"`
	Message string      `json:"message"`
	Field   string      `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// RespondError aborts the request with the JSON rendering of err. Errors
// without a Kind are logged and rendered as a generic INTERNAL_ERROR so no
// internal detail reaches the client.
func RespondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)

	body := ErrorBody{Code: kind, Message: "internal server error"}
	var appErr *apperr.Error
	if kind != apperr.KindInternal && errors.As(err, &appErr) {
		body.Message = appErr.Message
		body.Field = appErr.Field
	}

	l := logging.Ctx(c.Request.Context())
	switch {
	case status >= http.StatusInternalServerError:
		l.Error().Err(err).Str("code", string(kind)).Msg("request failed")
	case kind == apperr.KindUnauthenticated:
		l.Debug().Err(err).Msg("request unauthenticated")
	default:
		l.Info().Err(err).Str("code", string(kind)).Msg("request rejected")
	}

	if kind == apperr.KindUnauthenticated {
		c.Header("WWW-Authenticate", "Bearer")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: body})
}

// Recovery renders panics as INTERNAL_ERROR in the usual error envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logging.Ctx(c.Request.Context()).Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorBody{Code: apperr.KindInternal, Message: "internal server error"},
		})
	})
}
