package audithandler

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pts/internal/domain/audit"
	"pts/internal/domain/auth"
	"pts/internal/requestctx"
)

type fakeLister struct {
	filter audit.Filter
	limit  int
}

func (f *fakeLister) List(_ context.Context, filter audit.Filter, limit, _ int) ([]audit.Event, error) {
	f.filter, f.limit = filter, limit
	actor := int64(4)
	return []audit.Event{
		{ID: 1, ActorID: &actor, Action: "REQUEST_APPROVE", EntityType: "request", EntityID: "12", RequestID: "req-1", CreatedAt: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)},
		{ID: 2, Action: "PERIOD_RECALC", EntityType: "payroll_period", EntityID: "3", CreatedAt: time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)},
	}, nil
}

func serve(lister *fakeLister, role auth.Role, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	NewHandler(lister, nil).RegisterRoutes(r)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(requestctx.WithActor(req.Context(), auth.Actor{UserID: 1, Role: role}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuditRoles(t *testing.T) {
	cases := map[auth.Role]int{
		auth.RolePTSOfficer: http.StatusOK,
		auth.RoleHeadHR:     http.StatusOK,
		auth.RoleAdmin:      http.StatusOK,
		auth.RoleDirector:   http.StatusForbidden,
		auth.RoleUser:       http.StatusForbidden,
	}
	for role, want := range cases {
		t.Run(string(role), func(t *testing.T) {
			assert.Equal(t, want, serve(&fakeLister{}, role, "/audit/events").Code)
		})
	}
}

func TestListEventsPassesFilter(t *testing.T) {
	lister := &fakeLister{}
	rec := serve(lister, auth.RolePTSOfficer, "/audit/events?action=REQUEST_APPROVE&entityType=request&entityId=12")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, audit.Filter{Action: "REQUEST_APPROVE", EntityType: "request", EntityID: "12"}, lister.filter)
	assert.Equal(t, 100, lister.limit)
}

func TestExportEventsCSV(t *testing.T) {
	lister := &fakeLister{}
	rec := serve(lister, auth.RoleHeadHR, "/audit/events/export")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, exportLimit, lister.limit)

	rows, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "actor_id", rows[0][1])
	assert.Equal(t, []string{"1", "4", "REQUEST_APPROVE", "request", "12", "req-1", "2024-03-01T08:00:00Z"}, rows[1])
	assert.Equal(t, "", rows[2][1])
}
