package http

import (
	"errors"
	"fmt"
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/generated/servers"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var (
	// ErrMissingToken is returned for requests without a bearer token.
	ErrMissingToken = errors.New("missing bearer token")

	// ErrInvalidToken is returned for tokens that fail parsing or carry bad claims.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrRevokedToken is returned for tokens revoked through logout.
	ErrRevokedToken = errors.New("token has been revoked")
)

// badRequestError marks request decoding failures.
type badRequestError struct {
	message string
	cause   error
}

func newBadRequest(message string, cause error) error {
	return &badRequestError{message: message, cause: cause}
}

func (e *badRequestError) Error() string {
	if e.cause == nil {
		return e.message
	}
	return fmt.Sprintf("%s: %v", e.message, e.cause)
}

func (e *badRequestError) Unwrap() error {
	return e.cause
}

// statusFor maps use case errors to HTTP status codes.
func statusFor(err error) int {
	var badRequest *badRequestError
	switch {
	case errors.As(err, &badRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrMissingToken), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrRevokedToken):
		return http.StatusUnauthorized
	case errors.Is(err, commands.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, commands.ErrBatchIsTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, commands.ErrBatchIsEmpty):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, services.ErrPricingNotConfigured):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(ctx echo.Context, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", ctx.Path()),
			zap.String("requestID", ctx.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err))
		message = "internal error"
	}
	return ctx.JSON(status, servers.Error{Code: status, Message: message})
}

// errorHandler renders errors that never reached a Server method (routing,
// parameter binding, rate limiting) in the API error format.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := http.StatusText(status)

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			message = fmt.Sprint(httpErr.Message)
		} else {
			logger.Error("unhandled error", zap.String("path", ctx.Path()), zap.Error(err))
		}

		if ctx.Request().Method == http.MethodHead {
			err = ctx.NoContent(status)
		} else {
			err = ctx.JSON(status, servers.Error{Code: status, Message: message})
		}
		if err != nil {
			logger.Warn("failed to write error response", zap.Error(err))
		}
	}
}
