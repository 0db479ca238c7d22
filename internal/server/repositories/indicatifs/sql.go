// Package indicatifs persists the call-signs known to a cahier.
package indicatifs

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cahierdeveille/internal/common"
	"github.com/dmitrijs2005/cahierdeveille/internal/dbx"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

// List returns labels in registration order.
func (r *SQLRepository) List(ctx context.Context, cahierID int64) ([]string, error) {
	query := `SELECT indicatif FROM indicatifs WHERE cahier_id = $1 ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, cahierID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// Add registers label. An exact duplicate yields common.ErrorAlreadyExists.
func (r *SQLRepository) Add(ctx context.Context, cahierID int64, label string, at time.Time) error {
	query := `INSERT INTO indicatifs (cahier_id, indicatif, created_at) VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, cahierID, label, at); err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// AddMissing registers every label not yet known, silently skipping the rest.
func (r *SQLRepository) AddMissing(ctx context.Context, cahierID int64, labels []string, at time.Time) error {
	query :=
		`INSERT INTO indicatifs (cahier_id, indicatif, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (cahier_id, indicatif) DO NOTHING`

	for _, l := range labels {
		if _, err := r.db.ExecContext(ctx, query, cahierID, l, at); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, cahierID int64, label string) error {
	query := `DELETE FROM indicatifs WHERE cahier_id = $1 AND indicatif = $2`

	res, err := r.db.ExecContext(ctx, query, cahierID, label)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
