package shared

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pts/internal/transport/http/api"
)

// PathID parses a positive int64 URL parameter, writing a 400 when it is malformed.
func PathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", name+" must be a positive integer", RequestID(r))
		return 0, false
	}
	return id, true
}
