package services

import (
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
	"github.com/dmitrijs2005/cahierdeveille/internal/server/blobstore"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/models"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/repositories/repomanager"
)

// MsgProfilePasswordMismatch is the profile screen's wording, which differs
// from registration by the trailing period.
const MsgProfilePasswordMismatch = "Les mots de passe ne correspondent pas."

// ProfileView is what the profile screen shows.
type ProfileView struct {
	Email        string `json:"email"`
	Operator     string `json:"operator"`
	Matricule    string `json:"matricule"`
	Service      string `json:"service"`
	HasSignature bool   `json:"hasSignature"`
	HasParaphe   bool   `json:"hasParaphe"`
	Signature    string `json:"signature,omitempty"`
	Paraphe      string `json:"paraphe,omitempty"`
}

// ProfileUpdate is the profile form. The password is only changed when
// both password fields are filled.
type ProfileUpdate struct {
	Operator        string
	Matricule       string
	Service         string
	NewPassword     string
	ConfirmPassword string
}

type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blobstore.Store
	log         logging.Logger
	now         func() time.Time
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, blobs blobstore.Store, log logging.Logger) *ProfileService {
	return &ProfileService{db: db, repomanager: m, blobs: blobs, log: log, now: time.Now}
}

// Get returns the profile of the session user. A user without a profile row
// gets empty fields.
func (s *ProfileService) Get(ctx context.Context, sess auth.Session) (*ProfileView, error) {
	view := &ProfileView{Email: sess.Email}

	p, err := s.repomanager.Profiles(s.db).Get(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return view, nil
		}
		return nil, fmt.Errorf("error loading profile: %w", err)
	}

	view.Operator, view.Matricule, view.Service = p.RedacteurName, p.Matricule, p.Service

	sig, par := s.images(ctx, p)
	view.HasSignature, view.Signature = len(sig) > 0, EncodePNGDataURL(sig)
	view.HasParaphe, view.Paraphe = len(par) > 0, EncodePNGDataURL(par)
	return view, nil
}

// Update writes the text fields and, when requested, the new password in
// one transaction.
func (s *ProfileService) Update(ctx context.Context, sess auth.Session, in ProfileUpdate) error {
	changePassword := in.NewPassword != "" && in.ConfirmPassword != ""
	if changePassword {
		if in.NewPassword != in.ConfirmPassword {
			return common.NewValidationError(MsgProfilePasswordMismatch)
		}
		if err := firstViolation([]rule{{value: in.NewPassword, tag: "min=6", msg: MsgPasswordTooShort}}); err != nil {
			return err
		}
	}

	var hash string
	if changePassword {
		h, err := auth.HashPassword(in.NewPassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		hash = h
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		err := s.repomanager.Profiles(tx).Upsert(ctx, &models.Profile{
			UserID:        sess.UserID,
			RedacteurName: strings.TrimSpace(in.Operator),
			Matricule:     strings.TrimSpace(in.Matricule),
			Service:       strings.TrimSpace(in.Service),
			UpdatedAt:     s.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("error saving profile: %w", err)
		}
		if changePassword {
			if err := s.repomanager.Users(tx).UpdatePassword(ctx, sess.UserID, hash); err != nil {
				return fmt.Errorf("error saving password: %w", err)
			}
		}
		return nil
	})
}

// SetImage stores a signature or paraphe given as a PNG data URL and
// replaces the previous one.
func (s *ProfileService) SetImage(ctx context.Context, sess auth.Session, kind, dataURL string) error {
	if kind != profiles.ImageSignature && kind != profiles.ImageParaphe {
		return fmt.Errorf("unknown image kind %q: %w", kind, common.ErrorValidation)
	}
	img, err := DecodePNGDataURL(dataURL)
	if err != nil {
		return err
	}

	repo := s.repomanager.Profiles(s.db)
	var previous string
	if p, err := repo.Get(ctx, sess.UserID); err == nil {
		previous = p.SignatureKey
		if kind == profiles.ImageParaphe {
			previous = p.ParapheKey
		}
	} else if !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("error loading profile: %w", err)
	}

	key := blobstore.NewKey(sess.UserID, kind)
	if err := s.blobs.Put(ctx, key, img); err != nil {
		return fmt.Errorf("error storing image: %w", err)
	}
	if err := repo.SetImageKey(ctx, sess.UserID, kind, key); err != nil {
		_ = s.blobs.Delete(ctx, key)
		return fmt.Errorf("error saving image key: %w", err)
	}

	if previous != "" {
		if err := s.blobs.Delete(ctx, previous); err != nil {
			s.log.Warn(ctx, "stale image not deleted", "key", previous, "error", err)
		}
	}
	return nil
}

// Images returns the stored signature and paraphe of userID, nil when absent.
func (s *ProfileService) Images(ctx context.Context, userID string) (signature, paraphe []byte, err error) {
	p, err := s.repomanager.Profiles(s.db).Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("error loading profile: %w", err)
	}
	signature, paraphe = s.images(ctx, p)
	return signature, paraphe, nil
}

// RedacteurName returns the operator display name, "" when unset.
func (s *ProfileService) RedacteurName(ctx context.Context, userID string) (string, error) {
	p, err := s.repomanager.Profiles(s.db).Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("error loading profile: %w", err)
	}
	return p.RedacteurName, nil
}

func (s *ProfileService) images(ctx context.Context, p *models.Profile) (signature, paraphe []byte) {
	return s.blob(ctx, p.SignatureKey), s.blob(ctx, p.ParapheKey)
}

// blob reads key, logging and swallowing failures: a missing image never
// blocks the profile screen or an export.
func (s *ProfileService) blob(ctx context.Context, key string) []byte {
	if key == "" {
		return nil
	}
	b, err := s.blobs.Get(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "image not readable", "key", key, "error", err)
		return nil
	}
	return b
}
