package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/cahierdeveille/internal/common"
	"github.com/dmitrijs2005/cahierdeveille/internal/dbx"
	"github.com/dmitrijs2005/cahierdeveille/internal/logging"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/auth"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/metrics"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/models"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/pdfexport"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/repositories/repomanager"
)

// EventDetails is the metadata block of a cahier.
type EventDetails struct {
	Evenement   string `json:"evenement"`
	Redacteur   string `json:"redacteur"`
	Poste       string `json:"poste"`
	Frequence   string `json:"frequence"`
	Responsable string `json:"responsable"`
}

// SaveInput is a whole cahier as sent by the editor. ID zero means new.
type SaveInput struct {
	ID             int64
	Event          EventDetails
	Communications []models.Communication
	Indicatifs     []string
}

// LegacyCahier is the reply of the one-shot save endpoint.
type LegacyCahier struct {
	ID int64 `json:"id"`
	EventDetails
	Communications []models.Communication `json:"communications"`
}

type CahierService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	profiles    *ProfileService
	logo        []byte
	log         logging.Logger
	now         func() time.Time
}

// NewCahierService builds the service. logo is the PNG printed on exports,
// nil for none.
func NewCahierService(db *sql.DB, m repomanager.RepositoryManager, profiles *ProfileService, logo []byte, log logging.Logger) *CahierService {
	return &CahierService{db: db, repomanager: m, profiles: profiles, logo: logo, log: log, now: time.Now}
}

// ownedCahier loads cahier id through tx, reporting cahiers of other users
// as common.ErrorNotFound.
func ownedCahier(ctx context.Context, m repomanager.RepositoryManager, tx dbx.DBTX, sess auth.Session, id int64) (*models.Cahier, error) {
	if id <= 0 {
		return nil, common.ErrorNotFound
	}
	return m.Cahiers(tx).Get(ctx, id, sess.UserID)
}

// Save creates or updates a cahier with its communications and call-signs
// in one transaction, then returns the stored state.
func (s *CahierService) Save(ctx context.Context, sess auth.Session, in SaveInput) (detail *models.CahierDetail, err error) {
	mode := "update"
	if in.ID == 0 {
		mode = "create"
	}
	var inserted, updated int
	defer func() { metrics.RecordCahierSave(mode, inserted, updated, err) }()

	now := s.now().UTC()
	labels := cleanLabels(in.Indicatifs)

	id, err := dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (int64, error) {
		repo := s.repomanager.Cahiers(tx)
		c := &models.Cahier{
			ID:          in.ID,
			UserID:      sess.UserID,
			Evenement:   in.Event.Evenement,
			Redacteur:   in.Event.Redacteur,
			Poste:       in.Event.Poste,
			Frequence:   in.Event.Frequence,
			Responsable: in.Event.Responsable,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if in.ID == 0 {
			if _, err := repo.Create(ctx, c); err != nil {
				return 0, err
			}
		} else if err := repo.Update(ctx, c); err != nil {
			return 0, err
		}

		comms := s.repomanager.Communications(tx)
		for _, row := range in.Communications {
			row.CahierID = c.ID
			if row.Heure.IsZero() {
				row.Heure = now
			}
			row.Heure = row.Heure.UTC()
			if row.ID != 0 {
				if err := comms.Update(ctx, &row); err != nil {
					return 0, fmt.Errorf("communication %d: %w", row.ID, err)
				}
				updated++
				continue
			}
			if _, err := comms.Insert(ctx, &row); err != nil {
				return 0, err
			}
			inserted++
		}

		if err := s.repomanager.Indicatifs(tx).AddMissing(ctx, c.ID, labels, now); err != nil {
			return 0, err
		}
		return c.ID, nil
	})
	if err != nil {
		inserted, updated = 0, 0
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error saving cahier: %w", err)
	}

	s.log.Info(ctx, "cahier saved", "cahier_id", id, "mode", mode, "inserted", inserted, "updated", updated)
	return s.Get(ctx, sess, id)
}

// Get returns a cahier with its communications ordered by time then id.
func (s *CahierService) Get(ctx context.Context, sess auth.Session, id int64) (*models.CahierDetail, error) {
	c, err := ownedCahier(ctx, s.repomanager, s.db, sess, id)
	if err != nil {
		return nil, err
	}
	comms, err := s.repomanager.Communications(s.db).ListByCahier(ctx, id)
	if err != nil {
		return nil, err
	}
	labels, err := s.repomanager.Indicatifs(s.db).List(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.CahierDetail{Cahier: *c, Communications: comms, Indicatifs: labels}, nil
}

func (s *CahierService) List(ctx context.Context, sess auth.Session, archived bool) ([]models.Cahier, error) {
	return s.repomanager.Cahiers(s.db).List(ctx, sess.UserID, archived)
}

// DeleteCommunication removes one persisted row of an owned cahier.
func (s *CahierService) DeleteCommunication(ctx context.Context, sess auth.Session, cahierID, commID int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := ownedCahier(ctx, s.repomanager, tx, sess, cahierID); err != nil {
			return err
		}
		return s.repomanager.Communications(tx).Delete(ctx, commID, cahierID)
	})
	if err != nil {
		return err
	}
	metrics.RecordCommunicationDelete()
	return nil
}

// Archive hides a cahier from the dashboard. Archiving twice is harmless.
func (s *CahierService) Archive(ctx context.Context, sess auth.Session, id int64) error {
	if id <= 0 {
		return common.ErrNotSaved
	}
	if err := s.repomanager.Cahiers(s.db).Archive(ctx, id, sess.UserID, s.now().UTC()); err != nil {
		return err
	}
	s.log.Info(ctx, "cahier archived", "cahier_id", id)
	return nil
}

// SaveLegacy inserts a new cahier and all its communications at once.
func (s *CahierService) SaveLegacy(ctx context.Context, sess auth.Session, event EventDetails, comms []models.Communication) (*LegacyCahier, error) {
	for i := range comms {
		comms[i].ID = 0
	}
	detail, err := s.Save(ctx, sess, SaveInput{Event: event, Communications: comms})
	if err != nil {
		return nil, err
	}
	return &LegacyCahier{ID: detail.Cahier.ID, EventDetails: event, Communications: detail.Communications}, nil
}

// Export renders an owned cahier as PDF and returns it with its file name.
func (s *CahierService) Export(ctx context.Context, sess auth.Session, id int64) (data []byte, filename string, err error) {
	start := s.now()
	defer func() {
		if !errors.Is(err, common.ErrorNotFound) {
			metrics.RecordPDFExport(time.Since(start), err)
		}
	}()

	detail, err := s.Get(ctx, sess, id)
	if err != nil {
		return nil, "", err
	}
	signature, paraphe, err := s.profiles.Images(ctx, sess.UserID)
	if err != nil {
		return nil, "", err
	}

	at := s.now()
	var buf bytes.Buffer
	err = pdfexport.Render(&buf, pdfexport.Document{
		Cahier:         detail.Cahier,
		Communications: detail.Communications,
		Logo:           s.logo,
		Signature:      signature,
		Paraphe:        paraphe,
		ExportedAt:     at,
	})
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), pdfexport.FileName(detail.Cahier.Evenement, at), nil
}

// cleanLabels trims labels and drops blanks and exact repeats.
func cleanLabels(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, l := range in {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
