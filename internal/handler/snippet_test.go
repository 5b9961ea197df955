package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/notecode/internal/apperror"
	"github.com/sakif/notecode/internal/handler"
	"github.com/sakif/notecode/internal/model"
)

// MockService implements handler.SnippetService without any store.
type MockService struct {
	CapturedCode     string
	CapturedLanguage string
	CapturedTheme    string
	CapturedID       string
	CreateCalls      int

	ReturnSnippet *model.Snippet
	ReturnErr     error
}

func (m *MockService) Default() model.Default { return model.DefaultSnippet() }

func (m *MockService) Create(_ context.Context, code, language, theme string) (*model.Snippet, error) {
	m.CreateCalls++
	m.CapturedCode, m.CapturedLanguage, m.CapturedTheme = code, language, theme
	if m.ReturnErr != nil {
		return nil, m.ReturnErr
	}
	return m.ReturnSnippet, nil
}

func (m *MockService) Get(_ context.Context, id string) (*model.Snippet, error) {
	m.CapturedID = id
	if m.ReturnErr != nil {
		return nil, m.ReturnErr
	}
	return m.ReturnSnippet, nil
}

func newRouter(svc handler.SnippetService, maxBody int64) http.Handler {
	h := handler.NewSnippetHandler(svc, zerolog.Nop(), maxBody)
	r := chi.NewRouter()
	r.Route("/api", h.Routes)
	return r
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var res handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	return res
}

func TestSnippetHandler_HandleDefault(t *testing.T) {
	router := newRouter(&MockService{}, 0)

	first := do(t, router, http.MethodGet, "/api/snippets/default", "")
	second := do(t, router, http.MethodGet, "/api/snippets/default", "")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "application/json", first.Header().Get("Content-Type"))
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes(), "default payload must be byte-identical")

	var res model.Default
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &res))
	assert.Equal(t, model.DefaultCode, res.Code)
	assert.Equal(t, "html", res.Language)
	assert.Equal(t, "vs-dark", res.Theme)
}

func TestSnippetHandler_HandleCreate(t *testing.T) {
	t.Run("valid snippet", func(t *testing.T) {
		svc := &MockService{ReturnSnippet: &model.Snippet{ID: "a1b2c3d4"}}
		router := newRouter(svc, 0)

		rr := do(t, router, http.MethodPost, "/api/snippets",
			`{"code":"<h1>hi</h1>","language":"html","theme":"vs-dark"}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		var res handler.CreateSnippetResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, "a1b2c3d4", res.ID)
		assert.Equal(t, "Code saved successfully!", res.Message)

		assert.Equal(t, "<h1>hi</h1>", svc.CapturedCode)
		assert.Equal(t, "html", svc.CapturedLanguage)
		assert.Equal(t, "vs-dark", svc.CapturedTheme)
	})

	t.Run("empty code is allowed", func(t *testing.T) {
		svc := &MockService{ReturnSnippet: &model.Snippet{ID: "emptycod"}}
		rr := do(t, newRouter(svc, 0), http.MethodPost, "/api/snippets", `{"code":""}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 1, svc.CreateCalls)
		assert.Equal(t, "", svc.CapturedLanguage)
	})

	t.Run("missing code", func(t *testing.T) {
		svc := &MockService{}
		rr := do(t, newRouter(svc, 0), http.MethodPost, "/api/snippets", `{"language":"html"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		res := decodeError(t, rr)
		assert.Equal(t, "validation_error", res.Code)
		assert.Equal(t, "code is required", res.Error)
		assert.Equal(t, 0, svc.CreateCalls)
	})

	t.Run("null code", func(t *testing.T) {
		svc := &MockService{}
		rr := do(t, newRouter(svc, 0), http.MethodPost, "/api/snippets", `{"code":null}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, 0, svc.CreateCalls)
	})

	t.Run("invalid request body", func(t *testing.T) {
		svc := &MockService{}
		rr := do(t, newRouter(svc, 0), http.MethodPost, "/api/snippets", `{"invalid_json":`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, 0, svc.CreateCalls)
	})

	t.Run("body too large", func(t *testing.T) {
		svc := &MockService{}
		body := `{"code":"` + strings.Repeat("x", 256) + `"}`
		rr := do(t, newRouter(svc, 64), http.MethodPost, "/api/snippets", body)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
		assert.Equal(t, "payload_too_large", decodeError(t, rr).Code)
		assert.Equal(t, 0, svc.CreateCalls)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := &MockService{ReturnErr: apperror.StoreUnavailable("put", errors.New("disk I/O error"))}
		rr := do(t, newRouter(svc, 0), http.MethodPost, "/api/snippets", `{"code":"x"}`)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		res := decodeError(t, rr)
		assert.Equal(t, "Failed to save snippet", res.Error)
		assert.NotContains(t, rr.Body.String(), "disk I/O")
	})

	t.Run("id space exhausted", func(t *testing.T) {
		svc := &MockService{ReturnErr: apperror.IDSpaceExhausted(5)}
		rr := do(t, newRouter(svc, 0), http.MethodPost, "/api/snippets", `{"code":"x"}`)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestSnippetHandler_HandleGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		svc := &MockService{ReturnSnippet: &model.Snippet{
			ID:        "a1b2c3d4",
			Code:      "<h1>hi</h1>",
			Language:  "html",
			Theme:     "vs-dark",
			CreatedAt: created,
		}}
		rr := do(t, newRouter(svc, 0), http.MethodGet, "/api/snippets/a1b2c3d4", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "a1b2c3d4", svc.CapturedID)
		assert.JSONEq(t,
			`{"id":"a1b2c3d4","code":"<h1>hi</h1>","language":"html","theme":"vs-dark","createdAt":"2024-05-01T12:00:00Z"}`,
			rr.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		svc := &MockService{ReturnErr: apperror.NotFound("snippet", "doesnotexist")}
		rr := do(t, newRouter(svc, 0), http.MethodGet, "/api/snippets/doesnotexist", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Snippet not found", decodeError(t, rr).Error)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := &MockService{ReturnErr: apperror.StoreUnavailable("get", context.DeadlineExceeded)}
		rr := do(t, newRouter(svc, 0), http.MethodGet, "/api/snippets/a1b2c3d4", "")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Failed to fetch snippet", decodeError(t, rr).Error)
	})
}
