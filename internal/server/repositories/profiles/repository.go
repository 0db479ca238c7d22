package profiles

import (
	"context"

	"github.com/dmitrijs2005/cahierdeveille/internal/server/models"
)

// Image kinds stored on a profile.
const (
	ImageSignature = "signature"
	ImageParaphe   = "paraphe"
)

type Repository interface {
	Create(ctx context.Context, p *models.Profile) error
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, p *models.Profile) error
	SetImageKey(ctx context.Context, userID, kind, key string) error
}
