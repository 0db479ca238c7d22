package cahiers

import (
	"context"
	"time"

	"github.com/dmitrijs2005/cahierdeveille/internal/server/models"
)

// Every method is scoped to the owning user: a cahier of another user
// behaves as if it did not exist.
type Repository interface {
	Create(ctx context.Context, c *models.Cahier) (*models.Cahier, error)
	Update(ctx context.Context, c *models.Cahier) error
	Get(ctx context.Context, id int64, userID string) (*models.Cahier, error)
	List(ctx context.Context, userID string, archived bool) ([]models.Cahier, error)
	Archive(ctx context.Context, id int64, userID string, at time.Time) error
	CountActive(ctx context.Context, userID string) (int, error)
	Recent(ctx context.Context, userID string, limit int) ([]models.Cahier, error)
	CreatedSince(ctx context.Context, userID string, since time.Time) ([]models.Cahier, error)
}
