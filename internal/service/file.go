package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clouddocs/server/internal/logger"
	"github.com/clouddocs/server/internal/model"
)

const (
	uploadURLTTL   = 600 * time.Second
	downloadURLTTL = 600 * time.Second
	shareURLTTL    = 3600 * time.Second
)

// File implements file metadata operations on top of a metadata store and
// an object store. Every operation is scoped to the owner extracted from
// the verified token; a file ID belonging to another owner behaves as if
// the record does not exist.
type File struct {
	files   model.FileStore
	storage model.ObjectStorage
	mailer  model.Mailer
	logger  *logger.Logger
}

// NewFile creates a file service.
func NewFile(files model.FileStore, storage model.ObjectStorage, mailer model.Mailer, logger *logger.Logger) *File {
	return &File{
		files:   files,
		storage: storage,
		mailer:  mailer,
		logger:  logger,
	}
}

// IssueUpload assigns a fresh file ID, presigns a PUT URL for the derived
// object key and persists the metadata record. The record write completes
// before the grant is returned, so a successful response always has a
// matching row.
func (s *File) IssueUpload(ctx context.Context, owner, filename string, tags []string) (model.UploadGrant, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return model.UploadGrant{}, fmt.Errorf("%w: filename must not be empty", model.ErrInvalidArgument)
	}
	if tags == nil {
		tags = []string{}
	}

	fileID := uuid.New()
	key := model.ObjectKey(owner, fileID, filename)

	uploadURL, err := s.storage.PresignPut(ctx, key, uploadURLTTL)
	if err != nil {
		return model.UploadGrant{}, fmt.Errorf("failed to presign upload url: %w: %w", model.ErrStorage, err)
	}

	_, err = s.files.Create(ctx, model.File{
		Owner:     owner,
		FileID:    fileID,
		Filename:  filename,
		CreatedAt: time.Now().UTC(),
		Tags:      tags,
	})
	if err != nil {
		return model.UploadGrant{}, fmt.Errorf("failed to create file record: %w: %w", model.ErrStorage, err)
	}

	return model.UploadGrant{UploadURL: uploadURL, FileID: fileID}, nil
}

// ListFiles returns summaries of the owner's files, newest first. Records
// with missing optional fields get presentation defaults rather than
// failing the whole listing.
func (s *File) ListFiles(ctx context.Context, owner string) ([]model.FileSummary, error) {
	files, err := s.files.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w: %w", model.ErrStorage, err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].CreatedAt.After(files[j].CreatedAt)
	})

	summaries := make([]model.FileSummary, 0, len(files))
	for _, f := range files {
		summary := model.FileSummary{
			FileID:   f.FileID,
			Filename: f.Filename,
			Tags:     f.Tags,
		}
		if summary.Filename == "" {
			summary.Filename = "unknown"
		}
		if summary.Tags == nil {
			summary.Tags = []string{}
		}
		if !f.CreatedAt.IsZero() {
			summary.CreatedAt = f.CreatedAt.Unix()
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// IssueDownload presigns a GET URL for the file's current object key.
func (s *File) IssueDownload(ctx context.Context, owner string, fileID uuid.UUID) (model.DownloadGrant, error) {
	file, err := s.files.Get(ctx, owner, fileID)
	if err != nil {
		return model.DownloadGrant{}, fmt.Errorf("failed to get file: %w", err)
	}

	key := model.ObjectKey(owner, fileID, file.Filename)

	downloadURL, err := s.storage.PresignGet(ctx, key, downloadURLTTL)
	if err != nil {
		return model.DownloadGrant{}, fmt.Errorf("failed to presign download url: %w: %w", model.ErrStorage, err)
	}

	return model.DownloadGrant{DownloadURL: downloadURL}, nil
}

// Share presigns a longer-lived GET URL and emails it to the recipient.
func (s *File) Share(ctx context.Context, owner string, fileID uuid.UUID, recipient string) error {
	file, err := s.files.Get(ctx, owner, fileID)
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}

	key := model.ObjectKey(owner, fileID, file.Filename)

	shareURL, err := s.storage.PresignGet(ctx, key, shareURLTTL)
	if err != nil {
		return fmt.Errorf("failed to presign share url: %w: %w", model.ErrStorage, err)
	}

	subject := fmt.Sprintf("A file has been shared with you: %s", file.Filename)
	body := fmt.Sprintf(
		"You have received a shared file %q.\n\nDownload it here (link valid for one hour):\n%s\n",
		file.Filename, shareURL,
	)

	if err := s.mailer.Send(ctx, recipient, subject, body); err != nil {
		return fmt.Errorf("failed to send share email: %w", err)
	}

	s.logger.Info("file shared", "owner", owner, "fileID", fileID, "recipient", recipient)

	return nil
}

// Delete removes the object first and the metadata record second. If the
// object deletion fails the record is left untouched and the operation can
// be retried. If the record deletion fails after the object is gone, the
// stores have diverged.
func (s *File) Delete(ctx context.Context, owner string, fileID uuid.UUID) error {
	file, err := s.files.Get(ctx, owner, fileID)
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}

	key := model.ObjectKey(owner, fileID, file.Filename)

	if err := s.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete object: %w: %w", model.ErrStorage, err)
	}

	if err := s.files.Delete(ctx, owner, fileID); err != nil {
		s.logger.Error("object deleted but metadata removal failed", "owner", owner, "fileID", fileID, "error", err)
		return fmt.Errorf("failed to delete file record: %w: %w", model.ErrInconsistentState, err)
	}

	return nil
}

// Rename moves the object to the key derived from the new filename and
// then updates the record. A failure before the move completes leaves
// everything as it was; a metadata failure after the move is reported as
// divergence because the stored key no longer matches the record.
func (s *File) Rename(ctx context.Context, owner string, fileID uuid.UUID, newFilename string) error {
	newFilename = strings.TrimSpace(newFilename)
	if newFilename == "" {
		return fmt.Errorf("%w: filename must not be empty", model.ErrInvalidArgument)
	}

	file, err := s.files.Get(ctx, owner, fileID)
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}

	if newFilename == file.Filename {
		return nil
	}

	oldKey := model.ObjectKey(owner, fileID, file.Filename)
	newKey := model.ObjectKey(owner, fileID, newFilename)

	if err := s.storage.Copy(ctx, oldKey, newKey); err != nil {
		return fmt.Errorf("failed to copy object: %w: %w", model.ErrStorage, err)
	}

	if err := s.storage.Delete(ctx, oldKey); err != nil {
		return fmt.Errorf("failed to delete old object: %w: %w", model.ErrStorage, err)
	}

	if err := s.files.UpdateFilename(ctx, owner, fileID, newFilename); err != nil {
		s.logger.Error("object moved but metadata update failed", "owner", owner, "fileID", fileID, "newFilename", newFilename, "error", err)
		return fmt.Errorf("failed to update filename: %w: %w", model.ErrInconsistentState, err)
	}

	return nil
}

// UpdateTags replaces the file's tag set wholesale.
func (s *File) UpdateTags(ctx context.Context, owner string, fileID uuid.UUID, tags []string) error {
	if tags == nil {
		tags = []string{}
	}

	if err := s.files.UpdateTags(ctx, owner, fileID, tags); err != nil {
		return fmt.Errorf("failed to update tags: %w", err)
	}

	return nil
}
