//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/clouddocs/server/internal/model"
	repo "github.com/clouddocs/server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "clouddocs_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/clouddocs_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestFileRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	files := repo.NewFileRepository(conn)

	owner := "user-" + uuid.NewString()
	file := model.File{
		Owner:     owner,
		FileID:    uuid.New(),
		Filename:  "report.pdf",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		Tags:      []string{"finance", "invoice"},
	}

	created, err := files.Create(ctx, file)
	require.NoError(t, err)
	assert.Equal(t, file.FileID, created.FileID)

	got, err := files.Get(ctx, owner, file.FileID)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", got.Filename)
	assert.Equal(t, []string{"finance", "invoice"}, got.Tags)

	_, err = files.Get(ctx, "other-owner", file.FileID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, files.UpdateFilename(ctx, owner, file.FileID, "renamed.pdf"))
	got, err = files.Get(ctx, owner, file.FileID)
	require.NoError(t, err)
	assert.Equal(t, "renamed.pdf", got.Filename)

	require.NoError(t, files.UpdateTags(ctx, owner, file.FileID, []string{"archive"}))
	got, err = files.Get(ctx, owner, file.FileID)
	require.NoError(t, err)
	assert.Equal(t, []string{"archive"}, got.Tags)

	require.NoError(t, files.Delete(ctx, owner, file.FileID))
	_, err = files.Get(ctx, owner, file.FileID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.ErrorIs(t, files.Delete(ctx, owner, file.FileID), model.ErrNotFound)
	assert.ErrorIs(t, files.UpdateFilename(ctx, owner, file.FileID, "x"), model.ErrNotFound)
	assert.ErrorIs(t, files.UpdateTags(ctx, owner, file.FileID, nil), model.ErrNotFound)
}

func TestFileRepository_ListOrder(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	files := repo.NewFileRepository(conn)

	owner := "user-" + uuid.NewString()
	base := time.Now().UTC().Truncate(time.Microsecond)
	for _, offset := range []time.Duration{100, 300, 200} {
		_, err := files.Create(ctx, model.File{
			Owner:     owner,
			FileID:    uuid.New(),
			Filename:  fmt.Sprintf("file-%d.txt", offset),
			CreatedAt: base.Add(offset * time.Second),
			Tags:      []string{},
		})
		require.NoError(t, err)
	}

	listed, err := files.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "file-300.txt", listed[0].Filename)
	assert.Equal(t, "file-200.txt", listed[1].Filename)
	assert.Equal(t, "file-100.txt", listed[2].Filename)
}
