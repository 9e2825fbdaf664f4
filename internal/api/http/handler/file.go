package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clouddocs/server/internal/api/http/middleware"
	"github.com/clouddocs/server/internal/logger"
	"github.com/clouddocs/server/internal/model"
)

// FileService defines file operations used by the handlers.
type FileService interface {
	IssueUpload(ctx context.Context, owner, filename string, tags []string) (model.UploadGrant, error)
	ListFiles(ctx context.Context, owner string) ([]model.FileSummary, error)
	IssueDownload(ctx context.Context, owner string, fileID uuid.UUID) (model.DownloadGrant, error)
	Share(ctx context.Context, owner string, fileID uuid.UUID, recipient string) error
	Delete(ctx context.Context, owner string, fileID uuid.UUID) error
	Rename(ctx context.Context, owner string, fileID uuid.UUID, newFilename string) error
	UpdateTags(ctx context.Context, owner string, fileID uuid.UUID, tags []string) error
}

// File handles file metadata requests.
type File struct {
	service FileService
	logger  *logger.Logger
}

// NewFile creates file handlers.
func NewFile(service FileService, logger *logger.Logger) *File {
	return &File{
		service: service,
		logger:  logger,
	}
}

// Upload issues a presigned PUT URL. Filename and tags arrive as query
// parameters; tags is a JSON-encoded string array and anything
// undecodable counts as no tags.
func (h *File) Upload(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(r)
	if !ok {
		HandleError(w, h.logger, model.ErrUnauthorized)
		return
	}

	filename := r.URL.Query().Get("filename")

	tags := []string{}
	if raw := r.URL.Query().Get("tags"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			tags = []string{}
		}
	}

	grant, err := h.service.IssueUpload(r.Context(), owner, filename, tags)
	if err != nil {
		HandleError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, grant); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

// List returns the owner's files, newest first.
func (h *File) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(r)
	if !ok {
		HandleError(w, h.logger, model.ErrUnauthorized)
		return
	}

	files, err := h.service.ListFiles(r.Context(), owner)
	if err != nil {
		HandleError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"files": files}); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

// Download issues a presigned GET URL for one file.
func (h *File) Download(w http.ResponseWriter, r *http.Request) {
	owner, fileID, err := requestScope(r)
	if err != nil {
		HandleError(w, h.logger, err)
		return
	}

	grant, err := h.service.IssueDownload(r.Context(), owner, fileID)
	if err != nil {
		HandleError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, grant); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

type shareRequest struct {
	Email string `json:"email"`
}

// Share emails a presigned download link to the given recipient.
func (h *File) Share(w http.ResponseWriter, r *http.Request) {
	owner, fileID, err := requestScope(r)
	if err != nil {
		HandleError(w, h.logger, err)
		return
	}

	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		HandleError(w, h.logger, fmt.Errorf("%w: recipient email required", model.ErrInvalidArgument))
		return
	}

	if err := h.service.Share(r.Context(), owner, fileID, req.Email); err != nil {
		HandleError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"message": "File shared successfully"}); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

// Delete removes the object and its metadata record.
func (h *File) Delete(w http.ResponseWriter, r *http.Request) {
	owner, fileID, err := requestScope(r)
	if err != nil {
		HandleError(w, h.logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), owner, fileID); err != nil {
		HandleError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]string{"message": "File deleted successfully"}); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

type renameRequest struct {
	NewFilename string `json:"new_filename"`
}

// Rename moves the object to a key derived from the new filename and
// updates the record.
func (h *File) Rename(w http.ResponseWriter, r *http.Request) {
	owner, fileID, err := requestScope(r)
	if err != nil {
		HandleError(w, h.logger, err)
		return
	}

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		HandleError(w, h.logger, fmt.Errorf("%w: invalid request body", model.ErrInvalidArgument))
		return
	}

	if err := h.service.Rename(r.Context(), owner, fileID, req.NewFilename); err != nil {
		HandleError(w, h.logger, err)
		return
	}

	response := map[string]any{
		"fileId":   fileID,
		"filename": req.NewFilename,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

type tagsRequest struct {
	Tags []string `json:"tags"`
}

// UpdateTags replaces the file's tag set.
func (h *File) UpdateTags(w http.ResponseWriter, r *http.Request) {
	owner, fileID, err := requestScope(r)
	if err != nil {
		HandleError(w, h.logger, err)
		return
	}

	var req tagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		HandleError(w, h.logger, fmt.Errorf("%w: invalid request body", model.ErrInvalidArgument))
		return
	}

	if err := h.service.UpdateTags(r.Context(), owner, fileID, req.Tags); err != nil {
		HandleError(w, h.logger, err)
		return
	}

	response := map[string]any{
		"fileId": fileID,
		"tags":   req.Tags,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func ownerFrom(r *http.Request) (string, bool) {
	claims, ok := middleware.IdentityFromContext(r.Context())
	if !ok || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

// requestScope resolves the owner identity and the fileID path parameter.
// An unparseable fileID cannot name any record, so it reads as not found.
func requestScope(r *http.Request) (string, uuid.UUID, error) {
	owner, ok := ownerFrom(r)
	if !ok {
		return "", uuid.Nil, model.ErrUnauthorized
	}

	fileID, err := uuid.Parse(chi.URLParam(r, "fileID"))
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("%w: unknown file id", model.ErrNotFound)
	}

	return owner, fileID, nil
}
