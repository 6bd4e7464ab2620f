package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jsau/apiserver/internal/infrastructure/config"
	"github.com/jsau/apiserver/internal/infrastructure/logger"
	"github.com/jsau/apiserver/internal/infrastructure/storage"
)

type testEnv struct {
	t       *testing.T
	cfg     *config.Config
	handler http.Handler
}

func newTestEnv(t *testing.T, backend string, opts ...func(*config.Config)) *testEnv {
	t.Helper()
	return newTestEnvWithLogger(t, backend, logger.NewNop(), opts...)
}

func newTestEnvWithLogger(t *testing.T, backend string, appLogger *logger.Logger, opts ...func(*config.Config)) *testEnv {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "html_files"), 0o755))

	cfg := &config.Config{
		App: config.AppConfig{Name: "jsau-apiserver", Version: "1.0.0", Environment: "test"},
		Server: config.ServerConfig{
			Port:           8080,
			RequestTimeout: 5 * time.Second,
		},
		Storage: config.StorageConfig{
			RecipesFile:      filepath.Join(dir, "recettes.json"),
			FavoritesFile:    filepath.Join(dir, "favorites.json"),
			DocumentsDir:     filepath.Join(dir, "html_files"),
			FavoritesBackend: backend,
			BadgerDir:        filepath.Join(dir, "badger"),
		},
		Security: config.SecurityConfig{CORSAllowedOrigins: "http://localhost:5173"},
		Metrics:  config.MetricsConfig{Enabled: true},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	stores, err := storage.Open(cfg.Storage, appLogger)
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })

	srv, err := New(cfg, stores, appLogger)
	require.NoError(t, err)

	return &testEnv{t: t, cfg: cfg, handler: srv.Handler()}
}

func (e *testEnv) writeRecipes(content string) {
	e.t.Helper()
	require.NoError(e.t, os.WriteFile(e.cfg.Storage.RecipesFile, []byte(content), 0o644))
}

func (e *testEnv) writeFavorites(content string) {
	e.t.Helper()
	require.NoError(e.t, os.WriteFile(e.cfg.Storage.FavoritesFile, []byte(content), 0o644))
}

func (e *testEnv) writeDocument(name, content string) {
	e.t.Helper()
	require.NoError(e.t, os.WriteFile(filepath.Join(e.cfg.Storage.DocumentsDir, name), []byte(content), 0o644))
}

func (e *testEnv) do(method, target, body string) *httptest.ResponseRecorder {
	e.t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestInfo(t *testing.T) {
	env := newTestEnv(t, config.BackendFile)

	rec := env.do(http.MethodGet, "/info", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jsau-apiserver-1.0.0", rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestSearchCatalog(t *testing.T) {
	env := newTestEnv(t, config.BackendFile)

	t.Run("missing file", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/search", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("empty array", func(t *testing.T) {
		env.writeRecipes("[]")
		rec := env.do(http.MethodGet, "/search", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("records keep every field and are stable", func(t *testing.T) {
		catalog := `[{"id":1,"name":"Document1"},{"id":2,"recette":"Soupe","duree":20}]`
		env.writeRecipes(catalog)

		first := env.do(http.MethodGet, "/search", "")
		second := env.do(http.MethodGet, "/search", "")
		assert.Equal(t, http.StatusOK, first.Code)
		assert.JSONEq(t, catalog, first.Body.String())
		assert.Equal(t, first.Body.String(), second.Body.String())
	})

	t.Run("invalid json", func(t *testing.T) {
		env.writeRecipes("{broken")
		rec := env.do(http.MethodGet, "/search", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Error parsing JSON data."}`, rec.Body.String())
	})
}

func TestSearchDocument(t *testing.T) {
	env := newTestEnv(t, config.BackendFile)
	env.writeDocument("soupe.html", "<h1>Soupe</h1>")

	rec := env.do(http.MethodGet, "/search?recette=soupe", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<h1>Soupe</h1>", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	rec = env.do(http.MethodGet, "/search?recette=absent", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "File not Found", rec.Body.String())

	rec = env.do(http.MethodGet, "/search?recette=..%2Frecettes", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRecipe(t *testing.T) {
	env := newTestEnv(t, config.BackendFile)
	env.writeRecipes(`[{"id":1,"recette":"Soupe"},{"id":2,"recette":"Tarte aux Pommes"},{"id":3}]`)
	env.writeDocument("tarte_aux_pommes.html", "<h1>Tarte</h1>")

	tests := []struct {
		name     string
		target   string
		wantCode int
		wantBody string
	}{
		{"not an integer", "/recette/abc", http.StatusBadRequest, "Invalid recette ID."},
		{"unknown id", "/recette/999", http.StatusNotFound, "Document not found."},
		{"document missing", "/recette/1", http.StatusNotFound, "HTML file not found for the provided document."},
		{"download", "/recette/2", http.StatusOK, "<h1>Tarte</h1>"},
		{"trailing garbage after the id", "/recette/2abc", http.StatusOK, "<h1>Tarte</h1>"},
		{"fractional id", "/recette/1.5", http.StatusNotFound, "HTML file not found for the provided document."},
		{"leading whitespace", "/recette/%207", http.StatusNotFound, "Document not found."},
		{"signed id", "/recette/+2", http.StatusOK, "<h1>Tarte</h1>"},
		{"id beyond int range", "/recette/99999999999999999999999", http.StatusNotFound, "Document not found."},
		{"record without recette", "/recette/3", http.StatusNotFound, "HTML file not found for the provided document."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodGet, tt.target, "")
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}

	rec := env.do(http.MethodGet, "/recette/2", "")
	disposition := rec.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, "attachment")
	assert.Contains(t, disposition, "tarte_aux_pommes.html")

	env.writeRecipes("[{")
	rec = env.do(http.MethodGet, "/recette/1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error.", rec.Body.String())
}

func TestAddFavorite(t *testing.T) {
	env := newTestEnv(t, config.BackendFile)
	env.writeDocument("soupe.html", "<h1>Soupe</h1>")

	rec := env.do(http.MethodPost, "/favorites", "{}")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Filename is required."}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/favorites", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Filename is required."}`, rec.Body.String())

	// favorites file not created yet
	rec = env.do(http.MethodPost, "/favorites", `{"recetteFile":"soupe.html"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"File does not exist."}`, rec.Body.String())

	env.writeFavorites("[]")

	rec = env.do(http.MethodPost, "/favorites", `{"recetteFile":"absent.html"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"File does not exist."}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/favorites", `{"recetteFile":"soupe.html"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"Favorite added successfully!"}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/favorites", `{"recetteFile":"soupe.html"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"This favorite already exists."}`, rec.Body.String())

	env.writeFavorites("not json")
	rec = env.do(http.MethodPost, "/favorites", `{"recetteFile":"soupe.html"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Error parsing favorites data."}`, rec.Body.String())
}

func TestListFavorites(t *testing.T) {
	env := newTestEnv(t, config.BackendFile)

	rec := env.do(http.MethodGet, "/favorites", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"An error occurred while retrieving favorites."}`, rec.Body.String())

	env.writeFavorites("[]")
	rec = env.do(http.MethodGet, "/favorites", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"No favorites found."}`, rec.Body.String())

	env.writeFavorites(`[{"id":1,"recetteFile":"file1.html"}]`)
	rec = env.do(http.MethodGet, "/favorites", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"recetteFile":"file1.html"}]`, rec.Body.String())

	env.writeFavorites("[")
	rec = env.do(http.MethodGet, "/favorites", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Error parsing favorites data."}`, rec.Body.String())
}

func TestRemoveFavorite(t *testing.T) {
	env := newTestEnv(t, config.BackendFile)
	env.writeFavorites(`[{"id":1,"recetteFile":"file1.html"},{"id":2,"recetteFile":"file2.html"}]`)

	rec := env.do(http.MethodDelete, "/favorites", "{}")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Filename is required."}`, rec.Body.String())

	rec = env.do(http.MethodDelete, "/favorites", `{"filename":"nonexistent.html"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Favorite not found."}`, rec.Body.String())

	rec = env.do(http.MethodDelete, "/favorites", `{"filename":"file1.html"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Favorite deleted successfully."}`, rec.Body.String())

	rec = env.do(http.MethodGet, "/favorites", "")
	assert.JSONEq(t, `[{"id":2,"recetteFile":"file2.html"}]`, rec.Body.String())

	env.writeFavorites("{")
	rec = env.do(http.MethodDelete, "/favorites", `{"filename":"file2.html"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Error parsing favorites data."}`, rec.Body.String())
}

func TestFavoritesBadgerBackend(t *testing.T) {
	env := newTestEnv(t, config.BackendBadger)
	env.writeDocument("soupe.html", "x")
	env.writeDocument("pain.html", "x")

	rec := env.do(http.MethodGet, "/favorites", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	for _, name := range []string{"soupe.html", "pain.html"} {
		rec = env.do(http.MethodPost, "/favorites", `{"recetteFile":"`+name+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec = env.do(http.MethodDelete, "/favorites", `{"filename":"soupe.html"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/favorites", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":2,"recetteFile":"pain.html"}]`, rec.Body.String())
}

func TestReadiness(t *testing.T) {
	env := newTestEnv(t, config.BackendFile)

	rec := env.do(http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "favorites file missing")

	env.writeFavorites("[]")
	rec = env.do(http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ready"`)

	rec = env.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, config.BackendFile)
	env.do(http.MethodGet, "/search", "")

	rec := env.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `store_operations_total{op="load",result="ok",store="recipes"} 1`)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/search",status="200"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, config.BackendFile)

	req := httptest.NewRequest(http.MethodOptions, "/favorites", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestFavoritesKeepUnknownFields(t *testing.T) {
	env := newTestEnv(t, config.BackendFile)
	env.writeDocument("b.html", "x")
	env.writeFavorites(`[{"id":1,"recetteFile":"a.html","note":"x"},{"id":"7","recetteFile":"c.html"}]`)

	rec := env.do(http.MethodGet, "/favorites", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"recetteFile":"a.html","note":"x"},{"id":"7","recetteFile":"c.html"}]`, rec.Body.String())

	rec = env.do(http.MethodPost, "/favorites", `{"recetteFile":"b.html"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	data, err := os.ReadFile(env.cfg.Storage.FavoritesFile)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"id":1,"recetteFile":"a.html","note":"x"},{"id":"7","recetteFile":"c.html"},{"id":2,"recetteFile":"b.html"}]`,
		string(data))

	rec = env.do(http.MethodDelete, "/favorites", `{"filename":"c.html"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/favorites", "")
	assert.JSONEq(t, `[{"id":1,"recetteFile":"a.html","note":"x"},{"id":2,"recetteFile":"b.html"}]`, rec.Body.String())
}

func TestSearchCatalogWithNonObjectEntries(t *testing.T) {
	env := newTestEnv(t, config.BackendFile)
	env.writeRecipes(`[1,"x",{"id":2,"recette":"Pain"}]`)

	rec := env.do(http.MethodGet, "/search", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[1,"x",{"id":2,"recette":"Pain"}]`, rec.Body.String())

	rec = env.do(http.MethodGet, "/recette/2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "HTML file not found for the provided document.", rec.Body.String())
}

func TestFailedRequestsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	env := newTestEnvWithLogger(t, config.BackendFile, &logger.Logger{SugaredLogger: zap.New(core).Sugar()})
	env.writeFavorites("[]")

	rec := env.do(http.MethodDelete, "/favorites", `{"filename":"nonexistent.html"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Favorite not found."}`, rec.Body.String())

	failed := logs.FilterMessage("HTTP request failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, int64(http.StatusNotFound), failed[0].ContextMap()["status"])
}

func TestRateLimiterIsOptIn(t *testing.T) {
	env := newTestEnv(t, config.BackendFile)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/info", "").Code)
	}

	limited := newTestEnv(t, config.BackendFile, func(cfg *config.Config) {
		cfg.Security.RateLimitRequests = 1
		cfg.Security.RateLimitWindow = time.Minute
	})
	assert.Equal(t, http.StatusOK, limited.do(http.MethodGet, "/info", "").Code)
	rec := limited.do(http.MethodGet, "/info", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rec.Body.String())
}
