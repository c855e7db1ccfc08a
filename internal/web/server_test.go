package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/flashcards/internal/deck"
	"github.com/conorfennell/flashcards/internal/domain"
	"github.com/conorfennell/flashcards/internal/logger"
	"github.com/conorfennell/flashcards/internal/storage"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, backend string) (*Server, storage.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cards."+backend)
	if backend == storage.BackendSQLite {
		path = filepath.Join(t.TempDir(), "cards.db")
	}
	store, err := storage.Open(backend, path, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	n := 0
	d := deck.New(nil,
		deck.WithClock(func() time.Time { return t0 }),
		deck.WithIDGenerator(func() string { n++; return fmt.Sprintf("card-%d", n) }),
	)
	return NewServer(d, store, logger.Nop()), store
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" && strings.HasPrefix(body, "{") {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthCheck(t *testing.T) {
	s, _ := newTestServer(t, storage.BackendJSON)
	rec := do(t, s, http.MethodGet, "/healthcheck", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCardLifecycle(t *testing.T) {
	s, _ := newTestServer(t, storage.BackendJSON)

	rec := do(t, s, http.MethodPost, "/cards", `{"front":"Sepsis","back":"Lactato y SOFA"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[domain.Card](t, rec)
	assert.Equal(t, "card-1", created.ID)
	assert.Contains(t, created.Tags, "Cuidados Críticos")

	rec = do(t, s, http.MethodPost, "/cards", `{"front":"  ","back":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", decode[ErrorEnvelope](t, rec).Error.Code)

	rec = do(t, s, http.MethodPatch, "/cards/card-1", `{"notes":"qSOFA en urgencias"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "qSOFA en urgencias", decode[domain.Card](t, rec).Notes)

	rec = do(t, s, http.MethodPost, "/cards/card-1/review", `{"quality":5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	reviewed := decode[domain.Card](t, rec)
	assert.Equal(t, 1, reviewed.Reps)
	assert.Equal(t, t0.Add(24*time.Hour), reviewed.Due)

	rec = do(t, s, http.MethodPost, "/cards/card-1/review", `{"quality":6}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, s, http.MethodPost, "/cards/card-1/review", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodDelete, "/cards/card-1/tags", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[domain.Card](t, rec).Tags)

	rec = do(t, s, http.MethodPost, "/cards/card-1/retag", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[domain.Card](t, rec).Tags, "Cuidados Críticos")

	rec = do(t, s, http.MethodDelete, "/cards/card-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, s, http.MethodGet, "/cards/card-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[ErrorEnvelope](t, rec).Error.Code)
}

func TestListCards(t *testing.T) {
	s, _ := newTestServer(t, storage.BackendJSON)
	for _, body := range []string{
		`{"front":"ECG en hiperkalemia","back":"Ondas T picudas"}`,
		`{"front":"Sepsis","back":"Lactato y SOFA","notes":"qSOFA en urgencias"}`,
		`{"front":"Lactato","back":"Marcador de hipoperfusión"}`,
	} {
		require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/cards", body).Code)
	}
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/cards/card-2/review", `{"quality":4}`).Code)

	fronts := func(target string) []string {
		rec := do(t, s, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var out []string
		for _, c := range decode[[]domain.Card](t, rec) {
			out = append(out, c.Front)
		}
		return out
	}

	assert.Equal(t, []string{"Lactato", "Sepsis", "ECG en hiperkalemia"}, fronts("/cards"))
	assert.Equal(t, []string{"Lactato", "ECG en hiperkalemia"}, fronts("/cards?due=true"))
	assert.Equal(t, []string{"Sepsis", "Lactato"}, fronts("/cards?q=sepsis+lactato"))
	assert.Equal(t, []string{"Lactato"}, fronts("/cards?q=lactato&tag=Cuidados+Cr%C3%ADticos&due=1"))
	assert.Empty(t, fronts("/cards?q=zzz"))

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/cards?due=maybe", "").Code)

	rec := do(t, s, http.MethodGet, "/tags", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[[]string](t, rec), "Cardiología")
}

func TestImportExportSave(t *testing.T) {
	s, store := newTestServer(t, storage.BackendJSON)

	rec := do(t, s, http.MethodPost, "/import", "Sepsis\tLactato\n\tsin frente\nqSOFA\tTres criterios\tFR, PAS, GCS")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[importResponse](t, rec)
	assert.Len(t, resp.Imported, 2)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, 2, resp.Errors[0].Line)

	rec = do(t, s, http.MethodGet, "/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sepsis\tLactato\t\nqSOFA\tTres criterios\tFR, PAS, GCS", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/tab-separated-values")

	assert.Empty(t, store.Load(), "nothing is written before /save")
	rec = do(t, s, http.MethodPost, "/save", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, store.Load(), 2)
}

func TestHistory(t *testing.T) {
	s, _ := newTestServer(t, storage.BackendJSON)
	rec := do(t, s, http.MethodGet, "/cards/x/history", "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	s, store := newTestServer(t, storage.BackendSQLite)
	rec = do(t, s, http.MethodGet, "/cards/x/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]domain.ReviewLog](t, rec))

	rr := store.(storage.HistoryRecorder)
	require.NoError(t, rr.RecordReviews([]domain.ReviewLog{{CardID: "x", Timestamp: t0, Quality: 4, IntervalDays: 1, EF: 2.5}}))
	rec = do(t, s, http.MethodGet, "/cards/x/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	logs := decode[[]domain.ReviewLog](t, rec)
	require.Len(t, logs, 1)
	assert.Equal(t, 4, logs[0].Quality)
}
