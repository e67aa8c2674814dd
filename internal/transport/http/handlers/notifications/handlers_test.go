package notificationshandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pts/internal/domain/apperr"
	"pts/internal/domain/auth"
	"pts/internal/domain/notifications"
	"pts/internal/requestctx"
)

type fakeService struct {
	unread     bool
	limit      int
	offset     int
	listUserID int64
	readErr    error
}

func (f *fakeService) List(_ context.Context, userID int64, unreadOnly bool, limit, offset int) ([]notifications.Notification, int, error) {
	f.listUserID, f.unread, f.limit, f.offset = userID, unreadOnly, limit, offset
	return []notifications.Notification{{ID: 9, UserID: userID, Title: "approved"}}, 21, nil
}

func (f *fakeService) MarkRead(context.Context, int64, int64) error { return f.readErr }

func (f *fakeService) MarkAllRead(context.Context, int64) (int64, error) { return 3, nil }

func serve(t *testing.T, svc *fakeService, method, path string, withActor bool) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	NewHandler(svc, nil).RegisterRoutes(r)
	req := httptest.NewRequest(method, path, nil)
	if withActor {
		req = req.WithContext(requestctx.WithActor(req.Context(), auth.Actor{UserID: 7, Role: auth.RoleUser}))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestListUsesActorAndPaging(t *testing.T) {
	svc := &fakeService{}
	rec := serve(t, svc, http.MethodGet, "/notifications?unread=true&limit=500&offset=20", true)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, int64(7), svc.listUserID)
	assert.True(t, svc.unread)
	assert.Equal(t, 200, svc.limit)
	assert.Equal(t, 20, svc.offset)

	var body struct {
		Meta struct {
			Total int `json:"total"`
			Limit int `json:"limit"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 21, body.Meta.Total)
	assert.Equal(t, 200, body.Meta.Limit)
}

func TestMarkRead(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		rec := serve(t, &fakeService{}, http.MethodPost, "/notifications/9/read", true)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
	t.Run("other user's notification", func(t *testing.T) {
		rec := serve(t, &fakeService{readErr: apperr.NotFound("notification")}, http.MethodPost, "/notifications/9/read", true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
	t.Run("bad id", func(t *testing.T) {
		rec := serve(t, &fakeService{}, http.MethodPost, "/notifications/abc/read", true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("anonymous", func(t *testing.T) {
		rec := serve(t, &fakeService{}, http.MethodPost, "/notifications/read-all", false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
