package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/talentbridge/apiserver/internal/store"
	"github.com/talentbridge/apiserver/types"
)

const (
	maxResumeBytes     = 10 << 20
	maxResumeFormParts = 8 << 20
	formFieldResume    = "resume"
)

// ResumeManager stores and retrieves job seeker resumes.
type ResumeManager interface {
	Upload(ctx context.Context, userID, filename, contentType string, data []byte) (string, error)
	Open(ctx context.Context, userID string) (io.ReadCloser, string, error)
}

// ResumeHandler provides resume upload/download for job seekers.
type ResumeHandler struct {
	resumes ResumeManager
}

func NewResumeHandler(resumes ResumeManager) *ResumeHandler {
	return &ResumeHandler{resumes: resumes}
}

// ResumeRouter registers resume routes. Requires an authenticated
// job seeker session.
func ResumeRouter(r chi.Router, handler *ResumeHandler, requireAuth func(http.Handler) http.Handler) {
	r.With(requireAuth, RequireRole(types.RoleJobSeeker)).Post("/resume", handler.Upload)
	r.With(requireAuth, RequireRole(types.RoleJobSeeker)).Get("/resume", handler.Download)
}

func (h *ResumeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxResumeFormParts); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	files := r.MultipartForm.File[formFieldResume]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "resume file is required")
		return
	}
	if len(files) > 1 {
		writeError(w, http.StatusBadRequest, "only one resume file is allowed")
		return
	}

	fileHeader := files[0]
	file, err := fileHeader.Open()
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read resume file")
		return
	}

	data, err := readFileLimited(file, maxResumeBytes)
	_ = file.Close()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key, err := h.resumes.Upload(r.Context(), userID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job seeker profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to store resume")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"key": key})
}

func (h *ResumeHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	reader, contentType, err := h.resumes.Open(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no resume uploaded")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch resume")
		return
	}
	defer reader.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, reader)
}

func readFileLimited(reader io.Reader, limit int64) ([]byte, error) {
	limited := io.LimitReader(reader, limit+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.New("failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, errors.New("uploaded file too large")
	}
	return data, nil
}
