package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/zeal/internal/deck"
	"github.com/conorfennell/zeal/internal/domain"
	"github.com/conorfennell/zeal/internal/storage"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := storage.NewSlotStore(storage.NewMemorySlot(nil), storage.Options{})
	d := deck.New(store, nil, deck.WithClock(func() time.Time { return t0 }))
	return NewServer(d, nil)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestItemLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/items/privet", "")
	assert.Equal(t, ItemStatus{ItemID: "privet", Saved: false}, decode[ItemStatus](t, rec))

	rec = do(t, s, http.MethodPut, "/items/privet", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, s, http.MethodPut, "/items/privet", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/items", "")
	items := decode[[]domain.ReviewRecord](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, t0.UnixMilli(), items[0].NextReview)

	rec = do(t, s, http.MethodDelete, "/items/privet", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/items", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestReviewFlow(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/review/next", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	do(t, s, http.MethodPut, "/items/privet", "")
	do(t, s, http.MethodPut, "/items/poka", "")

	rec = do(t, s, http.MethodGet, "/review/next", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "privet", decode[domain.ReviewRecord](t, rec).ItemID)

	rec = do(t, s, http.MethodPost, "/review/privet", `{"quality":5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	reviewed := decode[domain.ReviewRecord](t, rec)
	assert.Equal(t, 1, reviewed.Interval)
	assert.InDelta(t, 2.6, reviewed.EaseFactor, 1e-9)

	rec = do(t, s, http.MethodGet, "/review/due", "")
	due := decode[[]domain.ReviewRecord](t, rec)
	require.Len(t, due, 1)
	assert.Equal(t, "poka", due[0].ItemID)

	rec = do(t, s, http.MethodGet, "/stats", "")
	assert.Equal(t, domain.Stats{TotalCards: 2, DueCards: 1}, decode[domain.Stats](t, rec))
}

func TestReviewErrors(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPut, "/items/privet", "")

	testCases := []struct {
		name string
		path string
		body string
		code int
	}{
		{name: "missing quality", path: "/review/privet", body: `{}`, code: http.StatusBadRequest},
		{name: "non-integer quality", path: "/review/privet", body: `{"quality":"good"}`, code: http.StatusBadRequest},
		{name: "malformed body", path: "/review/privet", body: `{`, code: http.StatusBadRequest},
		{name: "unsaved item", path: "/review/ghost", body: `{"quality":4}`, code: http.StatusNotFound},
		{name: "out of range quality passes through", path: "/review/privet", body: `{"quality":9}`, code: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, tc.code, rec.Code)
		})
	}

	rec := do(t, s, http.MethodGet, "/items/ghost", "")
	assert.False(t, decode[ItemStatus](t, rec).Saved, "review must not create items")
}

func TestPreview(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPut, "/items/privet", "")

	rec := do(t, s, http.MethodGet, "/review/privet/preview", "")
	require.Equal(t, http.StatusOK, rec.Code)
	outcomes := decode[[]PreviewOutcome](t, rec)
	require.Len(t, outcomes, 4)
	assert.Equal(t, "Again", outcomes[0].Label)
	assert.Equal(t, 0, outcomes[0].Record.Interval)
	assert.Equal(t, "Easy", outcomes[3].Label)
	assert.Equal(t, 1, outcomes[3].Record.Interval)

	rec = do(t, s, http.MethodGet, "/review/ghost/preview", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
