// Package profiles persists the one-to-one operator profile.
package profiles

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

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, p *models.Profile) error {
	query :=
		`INSERT INTO profiles (user_id, redacteur_name, matricule, service, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, p.UserID, p.RedacteurName, p.Matricule, p.Service, p.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	query :=
		`SELECT user_id, redacteur_name, matricule, service, signature_key, paraphe_key, updated_at
		 FROM profiles
		 WHERE user_id = $1`

	p := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.RedacteurName, &p.Matricule, &p.Service, &p.SignatureKey, &p.ParapheKey, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// Upsert writes the text fields of p, creating the row when it is missing.
// Image keys are left untouched.
func (r *SQLRepository) Upsert(ctx context.Context, p *models.Profile) error {
	query :=
		`INSERT INTO profiles (user_id, redacteur_name, matricule, service, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE SET
		   redacteur_name = excluded.redacteur_name,
		   matricule = excluded.matricule,
		   service = excluded.service,
		   updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query, p.UserID, p.RedacteurName, p.Matricule, p.Service, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// SetImageKey records the blob key of a signature or paraphe image.
func (r *SQLRepository) SetImageKey(ctx context.Context, userID, kind, key string) error {
	var column string
	switch kind {
	case ImageSignature:
		column = "signature_key"
	case ImageParaphe:
		column = "paraphe_key"
	default:
		return fmt.Errorf("unknown image kind %q", kind)
	}

	query := `INSERT INTO profiles (user_id, ` + column + `, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET ` + column + ` = excluded.` + column + `, updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query, userID, key, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
