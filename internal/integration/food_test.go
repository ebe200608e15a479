package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dahby/13-14-relationship-mapping/config"
	"github.com/dahby/13-14-relationship-mapping/internal/database"
	"github.com/dahby/13-14-relationship-mapping/internal/server"
	"github.com/dahby/13-14-relationship-mapping/internal/service"
)

type foodBody struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Recipe    string `json:"recipe"`
	Timestamp string `json:"timestamp"`
}

type testEnv struct {
	baseURL string
	reset   func()
}

// setupEnv serves the full stack over HTTP, backed by a sqlite file store.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		StoreDriver: config.StoreSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "food.db"),
	}
	res, err := database.Open(context.Background(), cfg, "../../migrations")
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := server.New(cfg, service.NewFoodService(res.Foods), server.WithLogger(logger))

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return &testEnv{
		baseURL: ts.URL + "/api/food",
		reset: func() {
			require.NoError(t, res.Truncate(context.Background()))
		},
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, e.baseURL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func (e *testEnv) mockFood(t *testing.T, name string) foodBody {
	t.Helper()
	resp, data := e.do(t, http.MethodPost, "", fmt.Sprintf(`{"name":%q,"recipe":"stir well"}`, name))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var food foodBody
	require.NoError(t, json.Unmarshal(data, &food))
	return food
}

func TestFoodLifecycle(t *testing.T) {
	env := setupEnv(t)

	t.Run("POST returns the created food", func(t *testing.T) {
		env.reset()
		resp, data := env.do(t, http.MethodPost, "", `{"name":"Pie","recipe":"mix and bake"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

		var food foodBody
		require.NoError(t, json.Unmarshal(data, &food))
		assert.Equal(t, "Pie", food.Name)
		assert.Equal(t, "mix and bake", food.Recipe)
		assert.NotEmpty(t, food.Timestamp)
		_, err := uuid.Parse(food.ID)
		assert.NoError(t, err)
	})

	t.Run("POST without name is 400", func(t *testing.T) {
		env.reset()
		resp, _ := env.do(t, http.MethodPost, "", `{"recipe":"mix and bake"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("POST duplicate name is 409", func(t *testing.T) {
		env.reset()
		existing := env.mockFood(t, "Curry")
		resp, _ := env.do(t, http.MethodPost, "", fmt.Sprintf(`{"name":%q,"recipe":"other"}`, existing.Name))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("GET returns the stored food", func(t *testing.T) {
		env.reset()
		existing := env.mockFood(t, "Soup")
		resp, data := env.do(t, http.MethodGet, "/"+existing.ID, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var food foodBody
		require.NoError(t, json.Unmarshal(data, &food))
		assert.Equal(t, existing.ID, food.ID)
		assert.Equal(t, existing.Name, food.Name)
		assert.Equal(t, existing.Recipe, food.Recipe)

		created, err := time.Parse(time.RFC3339Nano, existing.Timestamp)
		require.NoError(t, err)
		stored, err := time.Parse(time.RFC3339Nano, food.Timestamp)
		require.NoError(t, err)
		assert.True(t, created.Equal(stored), "created %s, stored %s", created, stored)
	})

	t.Run("GET without id is 404", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodGet, "", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("GET with malformed id is 404", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodGet, "/12345", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("PUT updates only the given fields", func(t *testing.T) {
		env.reset()
		existing := env.mockFood(t, "Stew")
		resp, data := env.do(t, http.MethodPut, "/"+existing.ID, `{"name":"Hearty Stew"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

		var food foodBody
		require.NoError(t, json.Unmarshal(data, &food))
		assert.Equal(t, existing.ID, food.ID)
		assert.Equal(t, "Hearty Stew", food.Name)
		assert.Equal(t, existing.Recipe, food.Recipe)
	})

	t.Run("PUT with empty name is 400", func(t *testing.T) {
		env.reset()
		existing := env.mockFood(t, "Salad")
		resp, _ := env.do(t, http.MethodPut, "/"+existing.ID, `{"name":""}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("PUT with malformed id is 404", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodPut, "/12345", `{"name":"anything"}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("PUT onto an existing name is 409", func(t *testing.T) {
		env.reset()
		first := env.mockFood(t, "Tacos")
		second := env.mockFood(t, "Burritos")
		resp, _ := env.do(t, http.MethodPut, "/"+second.ID, fmt.Sprintf(`{"name":%q}`, first.Name))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("DELETE removes the food", func(t *testing.T) {
		env.reset()
		existing := env.mockFood(t, "Waffles")
		resp, data := env.do(t, http.MethodDelete, "/"+existing.ID, "")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Empty(t, data)

		resp, _ = env.do(t, http.MethodGet, "/"+existing.ID, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, _ = env.do(t, http.MethodDelete, "/"+existing.ID, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("DELETE without id is 400", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodDelete, "", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("DELETE with malformed id is 404", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodDelete, "/12345", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
