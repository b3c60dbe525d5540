package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/arnshyz/UGC/internal/fault"
	"github.com/arnshyz/UGC/internal/scene"
	"github.com/arnshyz/UGC/internal/session"
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service            *session.Service
	validator          *validator.Validate
	logger             *slog.Logger
	enableAsyncProcess bool
}

// HandlerOption is a function that configures a Handlers instance.
type HandlerOption func(*Handlers)

// WithAsyncProcessing enables or disables background processing. When
// disabled, generation endpoints run synchronously, which keeps handler
// tests deterministic.
func WithAsyncProcessing(enabled bool) HandlerOption {
	return func(h *Handlers) {
		h.enableAsyncProcess = enabled
	}
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *session.Service, logger *slog.Logger, opts ...HandlerOption) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handlers{
		service:            service,
		validator:          validator.New(),
		logger:             logger,
		enableAsyncProcess: true,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// ListStructures handles GET /structures requests.
func (h *Handlers) ListStructures(w http.ResponseWriter, _ *http.Request) {
	structures := scene.Structures()
	resp := make([]StructureResponse, 0, len(structures))
	for _, st := range structures {
		scenes := make([]StructureSceneResponse, 0, len(st.Scenes))
		for i, tmpl := range st.Scenes {
			parts := make([]string, 0, len(tmpl.RequiredParts))
			for _, p := range tmpl.RequiredParts {
				parts = append(parts, string(p))
			}
			scenes = append(scenes, StructureSceneResponse{
				ID:            i + 1,
				Title:         tmpl.Title,
				Description:   tmpl.Description,
				RequiredParts: parts,
			})
		}
		resp = append(resp, StructureResponse{
			ID:          st.ID,
			Name:        st.Name,
			Description: st.Description,
			Scenes:      scenes,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListStyles handles GET /styles requests.
func (h *Handlers) ListStyles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, scene.Styles())
}

// CreateSession handles POST /sessions requests.
func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	sess, err := h.service.Create(r.Context(), session.CreateInput{
		StructureID:     req.StructureID,
		StyleID:         req.StyleID,
		ProductName:     req.ProductName,
		Brief:           req.Brief,
		ProductPhoto:    req.ProductPhoto,
		ModelPhoto:      req.ModelPhoto,
		BackgroundMusic: req.BackgroundMusic,
	})
	if err != nil {
		h.logger.Error("failed to create session",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to create session", "SESSION_CREATION_FAILED")
		return
	}

	writeJSON(w, http.StatusCreated, sess)
}

// ListSessions handles GET /sessions requests.
func (h *Handlers) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list sessions",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list sessions", "SESSION_LIST_FAILED")
		return
	}
	if sessions == nil {
		sessions = []*session.Session{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

// GetSession handles GET /sessions/{id} requests.
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// DeleteSession handles DELETE /sessions/{id} requests.
func (h *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found", "SESSION_NOT_FOUND")
			return
		}
		h.logger.Error("failed to delete session",
			slog.String("session_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to delete session", "SESSION_DELETE_FAILED")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectStructure handles PUT /sessions/{id}/structure requests.
func (h *Handlers) SelectStructure(w http.ResponseWriter, r *http.Request) {
	var req SelectStructureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	sess, err := h.service.SelectStructure(r.Context(), r.PathValue("id"), req.StructureID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Generate handles POST /sessions/{id}/generate requests. The image batch
// runs in the background; progress is observed through GET /sessions/{id}.
func (h *Handlers) Generate(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	for _, sc := range sess.Scenes {
		if sc.Busy() {
			writeError(w, http.StatusConflict, "a generation is already in flight", "SCENE_BUSY")
			return
		}
	}

	h.runTask(r, "initial batch", func(ctx context.Context) error {
		_, err := h.service.RunInitialBatch(ctx, sess.ID)
		return err
	})

	writeJSON(w, http.StatusAccepted, AcceptedResponse{SessionID: sess.ID, Status: "generating"})
}

// RegenerateImage handles POST /sessions/{id}/scenes/{sceneId}/image requests.
func (h *Handlers) RegenerateImage(w http.ResponseWriter, r *http.Request) {
	sess, sceneID, ok := h.loadScene(w, r)
	if !ok {
		return
	}

	h.runTask(r, "image regeneration", func(ctx context.Context) error {
		_, err := h.service.RegenerateImage(ctx, sess.ID, sceneID)
		return err
	})

	writeJSON(w, http.StatusAccepted, AcceptedResponse{SessionID: sess.ID, Status: "generating"})
}

// GenerateVideo handles POST /sessions/{id}/scenes/{sceneId}/video requests.
func (h *Handlers) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	sess, sceneID, ok := h.loadScene(w, r)
	if !ok {
		return
	}

	if sc := sess.SceneByID(sceneID); sc.Image == "" {
		writeError(w, http.StatusConflict, "the scene has no image to animate", "IMAGE_REQUIRED")
		return
	}

	// The body is optional; a custom prompt overrides the stored one.
	var req GenerateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Prompt != "" {
		if _, err := h.service.UpdateVideoPrompt(r.Context(), sess.ID, sceneID, req.Prompt); err != nil {
			h.writeServiceError(w, err)
			return
		}
	}

	h.runTask(r, "video generation", func(ctx context.Context) error {
		_, err := h.service.GenerateVideo(ctx, sess.ID, sceneID)
		return err
	})

	writeJSON(w, http.StatusAccepted, AcceptedResponse{SessionID: sess.ID, Status: "generating"})
}

// UpdatePrompt handles PUT /sessions/{id}/scenes/{sceneId}/prompt requests.
func (h *Handlers) UpdatePrompt(w http.ResponseWriter, r *http.Request) {
	var req UpdatePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	sceneID, err := sceneIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scene id", "INVALID_SCENE_ID")
		return
	}

	sess, err := h.service.UpdateVideoPrompt(r.Context(), r.PathValue("id"), sceneID, req.Prompt)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// UpdateScript handles PUT /sessions/{id}/scenes/{sceneId}/script requests.
func (h *Handlers) UpdateScript(w http.ResponseWriter, r *http.Request) {
	var req UpdateScriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	sceneID, err := sceneIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scene id", "INVALID_SCENE_ID")
		return
	}

	sess, err := h.service.UpdateScript(r.Context(), r.PathValue("id"), sceneID, req.Script)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// loadSession fetches the session from the path id, writing the error
// response itself when the session cannot be served.
func (h *Handlers) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.PathValue("id")
	sess, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found", "SESSION_NOT_FOUND")
			return nil, false
		}
		h.logger.Error("failed to get session",
			slog.String("session_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get session", "SESSION_FETCH_FAILED")
		return nil, false
	}
	return sess, true
}

// loadScene fetches the session and verifies the scene exists and is idle.
func (h *Handlers) loadScene(w http.ResponseWriter, r *http.Request) (*session.Session, int, bool) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return nil, 0, false
	}

	sceneID, err := sceneIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scene id", "INVALID_SCENE_ID")
		return nil, 0, false
	}

	sc := sess.SceneByID(sceneID)
	if sc == nil {
		writeError(w, http.StatusNotFound, "scene not found", "SCENE_NOT_FOUND")
		return nil, 0, false
	}
	if sc.Busy() {
		writeError(w, http.StatusConflict, "a generation is already in flight for this scene", "SCENE_BUSY")
		return nil, 0, false
	}
	return sess, sceneID, true
}

// runTask executes fn, in the background with a detached context when async
// processing is enabled. Use context.WithoutCancel so the work survives the
// end of the request.
func (h *Handlers) runTask(r *http.Request, name string, fn func(ctx context.Context) error) {
	if !h.enableAsyncProcess {
		if err := fn(r.Context()); err != nil {
			h.logger.Error("task failed",
				slog.String("task", name),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	go func(ctx context.Context) {
		if err := fn(ctx); err != nil {
			h.logger.Error("background task failed",
				slog.String("task", name),
				slog.String("error", err.Error()),
			)
		}
	}(context.WithoutCancel(r.Context()))
}

// writeServiceError maps service errors to HTTP responses.
func (h *Handlers) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found", "SESSION_NOT_FOUND")
	case errors.Is(err, session.ErrSceneNotFound):
		writeError(w, http.StatusNotFound, "scene not found", "SCENE_NOT_FOUND")
	case errors.Is(err, session.ErrSceneBusy):
		writeError(w, http.StatusConflict, "a generation is already in flight for this scene", "SCENE_BUSY")
	case errors.Is(err, session.ErrImageRequired):
		writeError(w, http.StatusConflict, "the scene has no image to animate", "IMAGE_REQUIRED")
	default:
		if fe := fault.As(err); fe != nil && fe.Category == fault.CategoryValidation {
			writeError(w, http.StatusBadRequest, fe.UserMessage(), string(fe.Category))
			return
		}
		h.logger.Error("request failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

// sceneIDFrom parses the sceneId path value.
func sceneIDFrom(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("sceneId"))
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
