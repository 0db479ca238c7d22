// Package communications persists the rows of a cahier.
package communications

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cahierdeveille/internal/common"
	"github.com/dmitrijs2005/cahierdeveille/internal/dbx"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

// ListByCahier returns the rows ordered by time, then id.
func (r *SQLRepository) ListByCahier(ctx context.Context, cahierID int64) ([]models.Communication, error) {
	query :=
		`SELECT id, cahier_id, appele, appelant, heure, communication
		 FROM communications
		 WHERE cahier_id = $1
		 ORDER BY heure ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, cahierID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.Communication{}
	for rows.Next() {
		var c models.Communication
		if err := rows.Scan(&c.ID, &c.CahierID, &c.Appele, &c.Appelant, &c.Heure, &c.Communication); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) Insert(ctx context.Context, c *models.Communication) (*models.Communication, error) {
	query :=
		`INSERT INTO communications (cahier_id, appele, appelant, heure, communication)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query, c.CahierID, c.Appele, c.Appelant, c.Heure, c.Communication).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *SQLRepository) Update(ctx context.Context, c *models.Communication) error {
	query :=
		`UPDATE communications
		 SET appele = $1, appelant = $2, heure = $3, communication = $4
		 WHERE id = $5 AND cahier_id = $6`

	res, err := r.db.ExecContext(ctx, query, c.Appele, c.Appelant, c.Heure, c.Communication, c.ID, c.CahierID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res.RowsAffected())
}

func (r *SQLRepository) Delete(ctx context.Context, id, cahierID int64) error {
	query := `DELETE FROM communications WHERE id = $1 AND cahier_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, cahierID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res.RowsAffected())
}

func expectOne(n int64, err error) error {
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
