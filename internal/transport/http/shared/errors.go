package shared

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"pts/internal/domain/apperr"
	"pts/internal/transport/http/api"
)

// WriteError maps a domain error onto an HTTP failure envelope. Unclassified errors become 500
// and are logged with the request id; their text is not returned.
func WriteError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	requestID := RequestID(r)
	var (
		transition *apperr.InvalidTransitionError
		mismatch   *apperr.RoleMismatchError
	)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.As(err, &mismatch):
		api.FailWithDetails(w, http.StatusForbidden, "role_mismatch", err.Error(),
			map[string]string{"expected": mismatch.Expected, "got": mismatch.Got}, requestID)
	case errors.Is(err, apperr.ErrPermissionDenied):
		api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), requestID)
	case errors.As(err, &transition):
		api.FailWithDetails(w, http.StatusConflict, "invalid_transition", err.Error(),
			map[string]string{"from": transition.From, "action": transition.Action}, requestID)
	case errors.Is(err, apperr.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), requestID)
	case errors.Is(err, apperr.ErrValidation):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
	case errors.Is(err, apperr.ErrDataIntegrity):
		api.Fail(w, http.StatusUnprocessableEntity, "data_integrity", err.Error(), requestID)
	default:
		if log != nil {
			log.Error("request failed", zap.String("requestId", requestID), zap.String("path", r.URL.Path), zap.Error(err))
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}
