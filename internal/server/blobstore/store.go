// Package blobstore keeps the operators' signature and paraphe images outside
// the database, in S3-compatible object storage or on the local filesystem,
// sealed at rest.
package blobstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store is a flat key/value store for small binary objects. Get returns
// common.ErrorNotFound for unknown keys.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// NewKey returns a fresh object key for an image of the given kind.
func NewKey(userID, kind string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("profiles/%s/%s/%d/%02d/%v", userID, kind, d.Year(), d.Month(), uuid.New())
}
