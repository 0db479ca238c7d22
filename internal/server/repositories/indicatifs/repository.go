package indicatifs

import (
	"context"
	"time"
)

type Repository interface {
	List(ctx context.Context, cahierID int64) ([]string, error)
	Add(ctx context.Context, cahierID int64, label string, at time.Time) error
	AddMissing(ctx context.Context, cahierID int64, labels []string, at time.Time) error
	Delete(ctx context.Context, cahierID int64, label string) error
}
