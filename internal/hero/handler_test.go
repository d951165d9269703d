package hero

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheustorresii/tour-of-heroes/internal/db"
	"github.com/matheustorresii/tour-of-heroes/internal/models"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.HeroEvent
}

func (p *recordingPublisher) Publish(evt models.HeroEvent) {
	p.mu.Lock()
	p.events = append(p.events, evt)
	p.mu.Unlock()
}

func (p *recordingPublisher) all() []models.HeroEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.HeroEvent(nil), p.events...)
}

func newTestMux(t *testing.T) (*http.ServeMux, *db.MockDB, *recordingPublisher) {
	t.Helper()
	store := db.NewMockDB()
	require.NoError(t, store.Seed(db.DefaultHeroes))
	pub := &recordingPublisher{}
	mux := http.NewServeMux()
	NewHandler(store, pub, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(mux)
	return mux, store, pub
}

func serve(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeHeroes(t *testing.T, rec *httptest.ResponseRecorder) []models.Hero {
	t.Helper()
	var out []models.Hero
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestListHeroes(t *testing.T) {
	mux, _, _ := newTestMux(t)
	rec := serve(mux, http.MethodGet, "/api/heroes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, db.DefaultHeroes, decodeHeroes(t, rec))
}

func TestSearchOnCollectionAndTrailingSlash(t *testing.T) {
	mux, _, _ := newTestMux(t)
	for _, target := range []string{"/api/heroes?name=dr", "/api/heroes/?name=dr"} {
		rec := serve(mux, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, []models.Hero{{ID: 11, Name: "Dr Nice"}, {ID: 18, Name: "Dr IQ"}}, decodeHeroes(t, rec))
	}

	rec := serve(mux, http.MethodGet, "/api/heroes/?name=nobody", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateHeroIgnoresClientID(t *testing.T) {
	mux, _, pub := newTestMux(t)
	rec := serve(mux, http.MethodPost, "/api/heroes", `{"id":5,"name":"Windstorm"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":21,"name":"Windstorm"}`, rec.Body.String())
	assert.Equal(t, []models.HeroEvent{{Type: models.HeroCreated, Hero: models.Hero{ID: 21, Name: "Windstorm"}}}, pub.all())
}

func TestCreateHeroValidation(t *testing.T) {
	mux, _, pub := newTestMux(t)
	for _, body := range []string{`{"name":""}`, `{"name":"x","power":9}`, `not json`} {
		rec := serve(mux, http.MethodPost, "/api/heroes", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Empty(t, pub.all())
}

func TestUpdateHeroOnCollection(t *testing.T) {
	mux, store, pub := newTestMux(t)
	rec := serve(mux, http.MethodPut, "/api/heroes", `{"id":13,"name":"Bombasto Jr"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	got, err := store.GetHero(13)
	require.NoError(t, err)
	assert.Equal(t, "Bombasto Jr", got.Name)
	assert.Equal(t, models.HeroUpdated, pub.all()[0].Type)

	assert.Equal(t, http.StatusBadRequest, serve(mux, http.MethodPut, "/api/heroes", `{"name":"no id"}`).Code)
	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodPut, "/api/heroes", `{"id":404,"name":"x"}`).Code)
}

func TestItemRoutes(t *testing.T) {
	mux, _, pub := newTestMux(t)

	rec := serve(mux, http.MethodGet, "/api/heroes/14", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":14,"name":"Celeritas"}`, rec.Body.String())

	rec = serve(mux, http.MethodPut, "/api/heroes/14", `{"name":"Celeritas II"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = serve(mux, http.MethodPut, "/api/heroes/14", `{"id":15,"name":"mismatch"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(mux, http.MethodDelete, "/api/heroes/14", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodGet, "/api/heroes/14", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodDelete, "/api/heroes/14", "").Code)

	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodGet, "/api/heroes/abc", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(mux, http.MethodPatch, "/api/heroes/11", "").Code)

	events := pub.all()
	require.Len(t, events, 2)
	assert.Equal(t, models.HeroUpdated, events[0].Type)
	assert.Equal(t, models.HeroEvent{Type: models.HeroDeleted, Hero: models.Hero{ID: 14, Name: "Celeritas II"}}, events[1])
}
