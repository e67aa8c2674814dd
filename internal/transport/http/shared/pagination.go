package shared

import (
	"net/http"
	"strconv"

	"pts/internal/transport/http/api"
)

type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit and offset, falling back to defaultLimit and capping at maxLimit.
// Malformed values are ignored rather than rejected.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	p := Pagination{Limit: defaultLimit}
	q := r.URL.Query()
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		p.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v >= 0 {
		p.Offset = v
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

func (p Pagination) Meta(total int) api.Meta {
	return api.Meta{Total: total, Limit: p.Limit, Offset: p.Offset}
}
