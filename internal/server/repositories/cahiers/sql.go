// Package cahiers persists radio-watch logs.
package cahiers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cahierdeveille/internal/common"
	"github.com/dmitrijs2005/cahierdeveille/internal/dbx"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/models"
)

const columns = `id, user_id, evenement, redacteur, poste, frequence, responsable, archived, created_at, updated_at`

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCahier(s scanner) (models.Cahier, error) {
	var c models.Cahier
	err := s.Scan(&c.ID, &c.UserID, &c.Evenement, &c.Redacteur, &c.Poste, &c.Frequence,
		&c.Responsable, &c.Archived, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *SQLRepository) Create(ctx context.Context, c *models.Cahier) (*models.Cahier, error) {
	query :=
		`INSERT INTO cahiers_de_veille
		   (user_id, evenement, redacteur, poste, frequence, responsable, archived, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query, c.UserID, c.Evenement, c.Redacteur, c.Poste, c.Frequence,
		c.Responsable, c.Archived, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// Update rewrites the metadata of c. Last write wins.
func (r *SQLRepository) Update(ctx context.Context, c *models.Cahier) error {
	query :=
		`UPDATE cahiers_de_veille
		 SET evenement = $1, redacteur = $2, poste = $3, frequence = $4, responsable = $5, updated_at = $6
		 WHERE id = $7 AND user_id = $8`

	res, err := r.db.ExecContext(ctx, query, c.Evenement, c.Redacteur, c.Poste, c.Frequence,
		c.Responsable, c.UpdatedAt, c.ID, c.UserID)
	return affectedOne(res, err)
}

func (r *SQLRepository) Get(ctx context.Context, id int64, userID string) (*models.Cahier, error) {
	query := `SELECT ` + columns + ` FROM cahiers_de_veille WHERE id = $1 AND user_id = $2`

	c, err := scanCahier(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &c, nil
}

func (r *SQLRepository) List(ctx context.Context, userID string, archived bool) ([]models.Cahier, error) {
	query := `SELECT ` + columns + ` FROM cahiers_de_veille
		 WHERE user_id = $1 AND archived = $2
		 ORDER BY created_at DESC, id DESC`

	return r.query(ctx, query, userID, archived)
}

func (r *SQLRepository) Archive(ctx context.Context, id int64, userID string, at time.Time) error {
	query :=
		`UPDATE cahiers_de_veille SET archived = $1, updated_at = $2
		 WHERE id = $3 AND user_id = $4`

	res, err := r.db.ExecContext(ctx, query, true, at, id, userID)
	return affectedOne(res, err)
}

func (r *SQLRepository) CountActive(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM cahiers_de_veille WHERE user_id = $1 AND archived = $2`

	var n int
	if err := r.db.QueryRowContext(ctx, query, userID, false).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) Recent(ctx context.Context, userID string, limit int) ([]models.Cahier, error) {
	query := `SELECT ` + columns + ` FROM cahiers_de_veille
		 WHERE user_id = $1 AND archived = $2
		 ORDER BY created_at DESC, id DESC
		 LIMIT $3`

	return r.query(ctx, query, userID, false, limit)
}

func (r *SQLRepository) CreatedSince(ctx context.Context, userID string, since time.Time) ([]models.Cahier, error) {
	query := `SELECT ` + columns + ` FROM cahiers_de_veille
		 WHERE user_id = $1 AND archived = $2 AND created_at >= $3
		 ORDER BY created_at ASC, id ASC`

	return r.query(ctx, query, userID, false, since)
}

func (r *SQLRepository) query(ctx context.Context, query string, args ...any) ([]models.Cahier, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.Cahier{}
	for rows.Next() {
		c, err := scanCahier(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func affectedOne(res sql.Result, err error) error {
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
