package model

import (
	"context"
	"time"
)

// ObjectStorage abstracts the object store. Objects are only ever read or
// written by clients through presigned URLs; the server itself moves and
// deletes them by key.
type ObjectStorage interface {
	PresignPut(ctx context.Context, key string, expiry time.Duration) (string, error)
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	Copy(ctx context.Context, srcKey, dstKey string) error
	Delete(ctx context.Context, key string) error
}
