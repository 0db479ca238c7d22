package communications

import (
	"context"

	"github.com/dmitrijs2005/cahierdeveille/internal/server/models"
)

// Updates and deletes are scoped to the parent cahier so an id from another
// cahier never matches.
type Repository interface {
	ListByCahier(ctx context.Context, cahierID int64) ([]models.Communication, error)
	Insert(ctx context.Context, c *models.Communication) (*models.Communication, error)
	Update(ctx context.Context, c *models.Communication) error
	Delete(ctx context.Context, id, cahierID int64) error
}
