package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/clouddocs/server/internal/model"
)

var _ model.FileStore = (*FileRepository)(nil)

type FileRepository struct {
	db *Connection
}

func NewFileRepository(db *Connection) *FileRepository {
	return &FileRepository{
		db: db,
	}
}

func (r *FileRepository) Create(ctx context.Context, file model.File) (model.File, error) {
	query := `
		INSERT INTO files (owner_id, file_id, filename, created_at, tags)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	saved := file
	err := r.db.QueryRow(ctx, query,
		file.Owner, file.FileID, file.Filename, file.CreatedAt, file.Tags,
	).Scan(&saved.CreatedAt)
	if err != nil {
		return model.File{}, err
	}

	return saved, nil
}

func (r *FileRepository) Get(ctx context.Context, owner string, fileID uuid.UUID) (model.File, error) {
	query := `
		SELECT owner_id, file_id, filename, created_at, tags
		FROM files
		WHERE owner_id = $1 AND file_id = $2`

	var file model.File
	err := r.db.QueryRow(ctx, query, owner, fileID).Scan(
		&file.Owner, &file.FileID, &file.Filename, &file.CreatedAt, &file.Tags,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.File{}, model.ErrNotFound
		}
		return model.File{}, err
	}

	return file, nil
}

func (r *FileRepository) ListByOwner(ctx context.Context, owner string) ([]model.File, error) {
	query := `
		SELECT owner_id, file_id, filename, created_at, tags
		FROM files
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []model.File
	for rows.Next() {
		var file model.File
		err := rows.Scan(
			&file.Owner, &file.FileID, &file.Filename, &file.CreatedAt, &file.Tags,
		)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return files, nil
}

func (r *FileRepository) UpdateFilename(ctx context.Context, owner string, fileID uuid.UUID, filename string) error {
	const query = `UPDATE files SET filename = $3 WHERE owner_id = $1 AND file_id = $2`

	cmd, err := r.db.Exec(ctx, query, owner, fileID, filename)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *FileRepository) UpdateTags(ctx context.Context, owner string, fileID uuid.UUID, tags []string) error {
	const query = `UPDATE files SET tags = $3 WHERE owner_id = $1 AND file_id = $2`

	if tags == nil {
		tags = []string{}
	}

	cmd, err := r.db.Exec(ctx, query, owner, fileID, tags)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *FileRepository) Delete(ctx context.Context, owner string, fileID uuid.UUID) error {
	const query = `DELETE FROM files WHERE owner_id = $1 AND file_id = $2`

	cmd, err := r.db.Exec(ctx, query, owner, fileID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
