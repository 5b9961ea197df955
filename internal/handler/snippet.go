// Package handler contains the HTTP handlers of the snippet API.
//
// Handlers parse requests, call the service and write responses. They hold
// no business logic: identifier issuance, retry and lookup rules live in
// internal/service.
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/sakif/notecode/internal/apperror"
	"github.com/sakif/notecode/internal/model"
)

// DefaultMaxBodyBytes matches the 100 KiB JSON body limit editors were built against.
const DefaultMaxBodyBytes int64 = 100 * 1024

// SavedMessage is echoed back on a successful create.
const SavedMessage = "Code saved successfully!"

// SnippetService is what the handler needs from the service layer.
// *service.SnippetService satisfies it.
type SnippetService interface {
	Default() model.Default
	Create(ctx context.Context, code, language, theme string) (*model.Snippet, error)
	Get(ctx context.Context, id string) (*model.Snippet, error)
}

// CreateSnippetRequest is the POST /api/snippets body.
//
// Code is a pointer so a missing (or null) code can be told apart from an
// empty one: the first is rejected, the second is a valid snippet.
type CreateSnippetRequest struct {
	Code     *string `json:"code" validate:"required"`
	Language string  `json:"language"`
	Theme    string  `json:"theme"`
}

// CreateSnippetResponse is returned after a successful create.
type CreateSnippetResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// SnippetHandler serves the /api/snippets routes.
type SnippetHandler struct {
	service      SnippetService
	logger       zerolog.Logger
	validate     *validator.Validate
	maxBodyBytes int64
}

// NewSnippetHandler creates a new SnippetHandler.
// A maxBodyBytes <= 0 falls back to DefaultMaxBodyBytes.
func NewSnippetHandler(svc SnippetService, logger zerolog.Logger, maxBodyBytes int64) *SnippetHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}

	v := validator.New()
	// Report JSON names ("code") rather than Go field names ("Code").
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &SnippetHandler{
		service:      svc,
		logger:       logger,
		validate:     v,
		maxBodyBytes: maxBodyBytes,
	}
}

// Routes mounts the snippet endpoints on r.
//
// /default is registered before /{id}; chi prefers static segments anyway,
// so "default" is never looked up as an identifier.
func (h *SnippetHandler) Routes(r chi.Router) {
	r.Get("/snippets/default", h.HandleDefault)
	r.Post("/snippets", h.HandleCreate)
	r.Get("/snippets/{id}", h.HandleGet)
}

// HandleDefault returns the sample code the editor starts with.
//
// HTTP: GET /api/snippets/default
func (h *SnippetHandler) HandleDefault(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.service.Default())
}

// HandleCreate saves a new snippet and returns its identifier.
//
// HTTP: POST /api/snippets
// REQUEST BODY:  {"code": "<h1>hi</h1>", "language": "html", "theme": "vs-dark"}
// RESPONSE BODY: {"id": "a1b2c3d4", "message": "Code saved successfully!"}
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r)

	req, err := h.decodeCreate(w, r)
	if err != nil {
		log.Warn().Err(err).Msg("rejected snippet create request")
		writeError(w, log, err, "Failed to save snippet")
		return
	}

	snippet, err := h.service.Create(r.Context(), *req.Code, req.Language, req.Theme)
	if err != nil {
		writeError(w, log, err, "Failed to save snippet")
		return
	}

	writeJSON(w, log, http.StatusOK, CreateSnippetResponse{
		ID:      snippet.ID,
		Message: SavedMessage,
	})
}

// HandleGet returns a stored snippet.
//
// HTTP: GET /api/snippets/{id}
func (h *SnippetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	snippet, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.requestLogger(r), err, "Failed to fetch snippet")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, snippet)
}

// decodeCreate reads at most maxBodyBytes, decodes JSON and validates it.
func (h *SnippetHandler) decodeCreate(w http.ResponseWriter, r *http.Request) (*CreateSnippetRequest, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperror.TooLarge(tooLarge.Limit)
		}
		return nil, apperror.ValidationFailed("", "could not read request body")
	}

	var req CreateSnippetRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, apperror.ValidationFailed("", "invalid JSON body")
	}

	if err := h.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			field := fieldErrs[0].Field()
			return nil, apperror.ValidationFailed(field, field+" is required")
		}
		return nil, apperror.ValidationFailed("", "invalid request")
	}

	return &req, nil
}

func (h *SnippetHandler) requestLogger(r *http.Request) zerolog.Logger {
	if id := chimiddleware.GetReqID(r.Context()); id != "" {
		return h.logger.With().Str("request_id", id).Logger()
	}
	return h.logger
}
