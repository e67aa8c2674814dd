package reportshandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pts/internal/domain/auth"
	"pts/internal/domain/reports"
	"pts/internal/requestctx"
)

type fakeService struct {
	filter reports.JobRunFilter
	called bool
}

func (f *fakeService) Dashboard(context.Context) (reports.Dashboard, error) {
	return reports.Dashboard{PendingRequests: 2, PendingByStep: map[int]int{1: 2}}, nil
}

func (f *fakeService) JobRuns(_ context.Context, filter reports.JobRunFilter, _, _ int) ([]reports.JobRun, int, error) {
	f.filter, f.called = filter, true
	return []reports.JobRun{{ID: "run-1", JobType: filter.JobType, Status: "SUCCESS"}}, 1, nil
}

func serve(svc *fakeService, role auth.Role, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	NewHandler(svc, nil).RegisterRoutes(r)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(requestctx.WithActor(req.Context(), auth.Actor{UserID: 1, Role: role}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestDashboardIsStaffOnly(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, serve(&fakeService{}, auth.RoleUser, "/reports/dashboard").Code)

	rec := serve(&fakeService{}, auth.RoleHeadFinance, "/reports/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pendingRequests":2`)
}

func TestJobRunsFilter(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, auth.RolePTSOfficer, "/reports/jobs?jobType=period_recalculation&status=FAILED&startedFrom=2024-03-01")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "period_recalculation", svc.filter.JobType)
	assert.Equal(t, "FAILED", svc.filter.Status)
	require.NotNil(t, svc.filter.StartedFrom)
	assert.True(t, svc.filter.StartedFrom.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestJobRunsRejectsBadDate(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, auth.RolePTSOfficer, "/reports/jobs?startedFrom=yesterday")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, svc.called)
}
