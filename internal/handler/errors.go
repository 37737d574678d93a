package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/ticket-reply-service/internal/errs"
)

const serverError = "server error"

// statusFor maps the gateway error taxonomy to an HTTP status and a caller-safe message.
func statusFor(err error) (int, string) {
	var (
		ve errs.ValidationError
		de *errs.DownstreamError
		se *errs.StoreError
	)
	switch {
	case errors.Is(err, errs.ErrConfiguration):
		return http.StatusInternalServerError, err.Error()
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.As(err, &ve):
		return http.StatusBadRequest, string(ve)
	case errors.Is(err, errs.ErrTicketNotFound):
		return http.StatusNotFound, "ticket not found"
	case errors.Is(err, errs.ErrDuplicateSubmission):
		return http.StatusConflict, err.Error()
	case errors.As(err, &de):
		return http.StatusInternalServerError, de.Message
	case errors.As(err, &se):
		return http.StatusInternalServerError, serverError
	default:
		return http.StatusInternalServerError, serverError
	}
}

func writeError(c *gin.Context, log *slog.Logger, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("request_failed",
			slog.String("path", c.FullPath()),
			slog.String("request_id", RequestID(c)),
			slog.String("err", err.Error()),
		)
	}
	c.JSON(status, gin.H{"error": msg})
}
