package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dmitrijs2005/cahierdeveille/internal/common"
	"github.com/dmitrijs2005/cahierdeveille/internal/dbx"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/auth"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/repositories/repomanager"
)

const MsgIndicatifRequired = "L'indicatif est requis"

// IndicatifService manages the call-signs of a cahier.
type IndicatifService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewIndicatifService(db *sql.DB, m repomanager.RepositoryManager) *IndicatifService {
	return &IndicatifService{db: db, repomanager: m, now: time.Now}
}

func (s *IndicatifService) List(ctx context.Context, sess auth.Session, cahierID int64) ([]string, error) {
	if _, err := ownedCahier(ctx, s.repomanager, s.db, sess, cahierID); err != nil {
		return nil, err
	}
	return s.repomanager.Indicatifs(s.db).List(ctx, cahierID)
}

// Add registers label on an owned cahier. Blank input is a validation error;
// an exact duplicate is common.ErrorAlreadyExists.
func (s *IndicatifService) Add(ctx context.Context, sess auth.Session, cahierID int64, label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return common.NewValidationError(MsgIndicatifRequired)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := ownedCahier(ctx, s.repomanager, tx, sess, cahierID); err != nil {
			return err
		}
		return s.repomanager.Indicatifs(tx).Add(ctx, cahierID, label, s.now().UTC())
	})
}

func (s *IndicatifService) Remove(ctx context.Context, sess auth.Session, cahierID int64, label string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := ownedCahier(ctx, s.repomanager, tx, sess, cahierID); err != nil {
			return err
		}
		return s.repomanager.Indicatifs(tx).Delete(ctx, cahierID, label)
	})
}
