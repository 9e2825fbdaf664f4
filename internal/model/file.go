package model

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FileStore defines persistence operations for file metadata.
type FileStore interface {
	Create(ctx context.Context, file File) (File, error)
	Get(ctx context.Context, owner string, fileID uuid.UUID) (File, error)
	ListByOwner(ctx context.Context, owner string) ([]File, error)
	UpdateFilename(ctx context.Context, owner string, fileID uuid.UUID, filename string) error
	UpdateTags(ctx context.Context, owner string, fileID uuid.UUID, tags []string) error
	Delete(ctx context.Context, owner string, fileID uuid.UUID) error
}

// File represents metadata for one uploaded file. The pair (Owner, FileID)
// uniquely identifies a record; the object-store key is derived from it
// together with the current filename.
type File struct {
	Owner     string
	FileID    uuid.UUID
	Filename  string
	CreatedAt time.Time
	Tags      []string
}

// FileSummary is the listing representation returned to clients.
type FileSummary struct {
	FileID    uuid.UUID `json:"fileId"`
	Filename  string    `json:"filename"`
	CreatedAt int64     `json:"createdAt"`
	Tags      []string  `json:"tags"`
}

// UploadGrant carries a time-limited write URL and the identifier assigned
// to the new file.
type UploadGrant struct {
	UploadURL string    `json:"uploadUrl"`
	FileID    uuid.UUID `json:"fileId"`
}

// DownloadGrant carries a time-limited read URL for an existing file.
type DownloadGrant struct {
	DownloadURL string `json:"downloadUrl"`
}

// ObjectKey derives the object-store path for a file. It is deterministic
// and, for a fixed owner, injective: FileID uniqueness alone guarantees no
// two records collide, the filename only adds readability. FileID is never
// recovered by parsing a key back apart.
func ObjectKey(owner string, fileID uuid.UUID, filename string) string {
	return fmt.Sprintf("%s/%s/%s", owner, fileID, filename)
}
