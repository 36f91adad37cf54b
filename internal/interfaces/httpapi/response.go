package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/sflhq/league-service/internal/domain/league"
	"github.com/sflhq/league-service/internal/usecase"
)

const (
	msgLeagueNotFound      = "League not found"
	msgAccessDenied        = "Access denied"
	msgNotLeagueMember     = "Access denied. You are not a member of this league."
	msgNoToken             = "Access denied. No token provided."
	msgInvalidToken        = "Invalid token."
	msgAlreadyMember       = "You are already a member of this league"
	msgLeagueFull          = "League is full"
	msgValidationFailed    = "Validation failed"
	msgInvalidRequest      = "Invalid request"
	msgAuthUnavailable     = "Authentication service unavailable"
	msgInternalServerError = "Internal server error"
)

type errorResponse struct {
	Error   string           `json:"error"`
	Details []fieldViolation `json:"details,omitempty"`
}

type fieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type mappedError struct {
	HTTPStatus int
	Message    string
}

// writeJSON encodes through a pooled buffer so a late marshal failure never
// leaves a half-written body behind the status line.
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	_, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"` + msgInternalServerError + `"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)
	writeJSON(ctx, w, mapped.HTTPStatus, errorResponse{Error: mapped.Message})
}

func writeValidationError(ctx context.Context, w http.ResponseWriter, details []fieldViolation) {
	ctx, span := startSpan(ctx, "httpapi.writeValidationError")
	defer span.End()

	writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
		Error:   msgValidationFailed,
		Details: details,
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: msgInternalServerError})
}

// mapError translates service errors into wire status and message. Unknown
// errors collapse into a sanitized 500 so internals never leak.
func mapError(ctx context.Context, err error) mappedError {
	_, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	switch {
	case errors.Is(err, league.ErrAlreadyMember):
		return mappedError{HTTPStatus: http.StatusBadRequest, Message: msgAlreadyMember}
	case errors.Is(err, league.ErrLeagueFull):
		return mappedError{HTTPStatus: http.StatusBadRequest, Message: msgLeagueFull}
	case errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{HTTPStatus: http.StatusBadRequest, Message: msgInvalidRequest}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{HTTPStatus: http.StatusNotFound, Message: msgLeagueNotFound}
	case errors.Is(err, usecase.ErrUnauthorized):
		return mappedError{HTTPStatus: http.StatusUnauthorized, Message: msgInvalidToken}
	case errors.Is(err, usecase.ErrForbidden):
		return mappedError{HTTPStatus: http.StatusForbidden, Message: msgAccessDenied}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{HTTPStatus: http.StatusServiceUnavailable, Message: msgAuthUnavailable}
	default:
		return mappedError{HTTPStatus: http.StatusInternalServerError, Message: msgInternalServerError}
	}
}
