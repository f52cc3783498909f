package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/recshelf/recshelf/internal/auth"
	"github.com/recshelf/recshelf/internal/catalog"
	"github.com/recshelf/recshelf/internal/catalog/openlibrary"
	"github.com/recshelf/recshelf/internal/catalog/rawg"
	"github.com/recshelf/recshelf/internal/catalog/tmdb"
	"github.com/recshelf/recshelf/internal/config"
	"github.com/recshelf/recshelf/internal/media"
	"github.com/recshelf/recshelf/internal/oracle"
	"github.com/recshelf/recshelf/internal/preferences"
	"github.com/recshelf/recshelf/internal/recommend"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE settings (key TEXT PRIMARY KEY, value TEXT NOT NULL);
		CREATE TABLE preferences (
			user_id TEXT PRIMARY KEY,
			record TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	require.NoError(t, err)

	cfg := &config.Config{}
	logger := zerolog.Nop()

	authService, err := auth.NewService(db, "test-secret", logger)
	require.NoError(t, err)
	prefService := preferences.NewService(db, logger)

	registry := catalog.NewRegistry()
	registry.Register(media.TypeMovie, tmdb.NewClient(config.TMDBConfig{}, media.TypeMovie, logger))
	registry.Register(media.TypeTV, tmdb.NewClient(config.TMDBConfig{}, media.TypeTV, logger))
	registry.Register(media.TypeGame, rawg.NewClient(config.RAWGConfig{}, logger))
	registry.Register(media.TypeBook, openlibrary.NewClient(config.OpenLibraryConfig{}, logger))

	oracleClient := oracle.NewClient(config.OracleConfig{}, logger)
	trendingCache := catalog.NewTrendingCache(0)
	engine := recommend.NewEngine(registry, oracleClient, prefService, trendingCache, logger)

	return NewServer(cfg, authService, prefService, engine, registry, trendingCache, oracleClient, logger)
}

func doJSON(s *Server, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, s *Server) string {
	t.Helper()

	rec := doJSON(s, http.MethodPost, "/api/auth/register", "",
		`{"email": "alice@example.com", "username": "alice", "password": "hunter22"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	token := registerAndLogin(t, s)
	assert.NotEmpty(t, token)

	rec := doJSON(s, http.MethodPost, "/api/auth/login", "",
		`{"email": "alice@example.com", "password": "hunter22"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(s, http.MethodPost, "/api/auth/login", "",
		`{"email": "alice@example.com", "password": "wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, codeUnauthorized, envelope.Error.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	registerAndLogin(t, s)

	rec := doJSON(s, http.MethodPost, "/api/auth/register", "",
		`{"email": "alice@example.com", "username": "alice2", "password": "other"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(s, http.MethodGet, "/api/recommendations", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(s, http.MethodGet, "/api/recommendations", "garbage-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecommendations_NoSignal(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s)

	rec := doJSON(s, http.MethodGet, "/api/recommendations?type=movie", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, codeNoSignal, envelope.Error.Code)
}

func TestRecommendations_InvalidType(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s)

	rec := doJSON(s, http.MethodGet, "/api/recommendations?type=music", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLikes_AddAndRemove(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s)

	rec := doJSON(s, http.MethodPost, "/api/likes", token,
		`{"mediaType": "game", "mediaId": "3498"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(s, http.MethodDelete, "/api/likes", token,
		`{"mediaType": "game", "mediaId": "3498"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var removal removalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &removal))
	assert.True(t, removal.Removed)

	// Removing again reports nothing to remove without failing.
	rec = doJSON(s, http.MethodDelete, "/api/likes", token,
		`{"mediaType": "game", "mediaId": "3498"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &removal))
	assert.False(t, removal.Removed)
}

func TestLikes_InvalidBody(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s)

	rec := doJSON(s, http.MethodPost, "/api/likes", token,
		`{"mediaType": "music", "mediaId": "1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(s, http.MethodPost, "/api/likes", token,
		`{"mediaType": "movie"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrending_ServedFromCache(t *testing.T) {
	s := newTestServer(t)
	s.trending.Set(media.TypeMovie, []media.Item{
		{ID: "1", Title: "Cached Movie", MediaType: media.TypeMovie, Genres: []string{}},
	})

	rec := doJSON(s, http.MethodGet, "/api/trending?type=movie", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp recommendationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, media.TypeMovie, resp.MediaType)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Cached Movie", resp.Items[0].Title)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(s, http.MethodGet, "/api/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status   string              `json:"status"`
		Catalogs map[media.Type]bool `json:"catalogs"`
		Oracle   bool                `json:"oracle"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, resp.Catalogs[media.TypeMovie]) // no TMDB key in tests
	assert.True(t, resp.Catalogs[media.TypeBook])   // Open Library needs none
	assert.False(t, resp.Oracle)
}
