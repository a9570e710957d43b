package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mdview/pkg/domain/interfaces"
	"github.com/m-mizutani/mdview/pkg/domain/model"
	githubinfra "github.com/m-mizutani/mdview/pkg/infra/github"
	"github.com/m-mizutani/mdview/pkg/view"
)

const maxPreviewRequestBytes = 16 << 20

// PreviewResponse is the body of a successful preview API call
type PreviewResponse struct {
	ID      string         `json:"id"`
	Kind    model.ViewKind `json:"kind"`
	Name    string         `json:"name"`
	Path    string         `json:"path"`
	Message string         `json:"message,omitempty"`
	HTML    string         `json:"html"`
}

// PreviewHandler serves file previews
type PreviewHandler struct {
	previewUC    interfaces.PreviewUseCase
	githubClient interfaces.GitHubClient
	settleDelay  time.Duration
}

// NewPreviewHandler creates a new PreviewHandler. githubClient may be nil when
// only the JSON API is served.
func NewPreviewHandler(previewUC interfaces.PreviewUseCase, githubClient interfaces.GitHubClient, settleDelay time.Duration) *PreviewHandler {
	return &PreviewHandler{
		previewUC:    previewUC,
		githubClient: githubClient,
		settleDelay:  settleDelay,
	}
}

// HandleAPI renders a file descriptor posted as JSON
func (h *PreviewHandler) HandleAPI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	var file model.FileDescriptor
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPreviewRequestBytes))
	if err := decoder.Decode(&file); err != nil {
		logger.Warn("Failed to parse preview request", "error", err)
		writeError(w, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}

	v, err := h.previewUC.Render(ctx, &file)
	if err != nil {
		logger.Error("Failed to render preview", "error", err)
		captureError(ctx, err)
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	panel, err := view.Panel(v, h.settleDelay)
	if err != nil {
		logger.Error("Failed to render preview panel", "error", err)
		captureError(ctx, err)
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	name, path, message := view.Fields(v)
	resp := &PreviewResponse{
		ID:      uuid.NewString(),
		Kind:    v.Kind(),
		Name:    name,
		Path:    path,
		Message: message,
		HTML:    panel.String(),
	}

	logger.Info("Rendered preview",
		"render_id", resp.ID,
		"kind", resp.Kind,
		"name", resp.Name,
		"size", file.Size,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("Failed to encode preview response", "error", err)
	}
}

// HandlePage fetches a file from GitHub and renders it as a standalone page
func (h *PreviewHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	owner := chi.URLParam(r, "owner")
	repo := chi.URLParam(r, "repo")
	path := chi.URLParam(r, "*")
	ref := r.URL.Query().Get("ref")

	file, err := h.githubClient.GetFile(ctx, owner, repo, path, ref)
	switch {
	case errors.Is(err, githubinfra.ErrFileNotFound):
		writeError(w, err, http.StatusNotFound)
		return
	case errors.Is(err, githubinfra.ErrNotAFile):
		writeError(w, err, http.StatusBadRequest)
		return
	case err != nil:
		logger.Error("Failed to fetch file from GitHub", "error", err,
			"owner", owner,
			"repo", repo,
			"path", path,
		)
		captureError(ctx, err)
		writeError(w, err, http.StatusBadGateway)
		return
	}

	v, err := h.previewUC.Render(ctx, file)
	if err != nil {
		logger.Error("Failed to render preview", "error", err)
		captureError(ctx, err)
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	page, err := view.Page(v, h.settleDelay)
	if err != nil {
		logger.Error("Failed to render preview page", "error", err)
		captureError(ctx, err)
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	logger.Info("Rendered preview page",
		"owner", owner,
		"repo", repo,
		"path", path,
		"ref", ref,
		"kind", v.Kind(),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(page.String())); err != nil {
		logger.Error("Failed to write preview page", "error", err)
	}
}
