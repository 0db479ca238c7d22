// Package services contains server-side business logic. Every operation
// acting on behalf of an operator takes the auth.Session explicitly.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/cahierdeveille/internal/common"
	"github.com/dmitrijs2005/cahierdeveille/internal/dbx"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/auth"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/config"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/metrics"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/models"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/repositories/repomanager"
)

// Messages shown to the operator on registration and login.
const (
	MsgOperatorRequired  = "Le nom de l'opérateur est requis"
	MsgMatriculeRequired = "Le matricule est requis"
	MsgEmailDomain       = "Seules les adresses e-mail @police.belgium.eu sont autorisées"
	MsgPasswordTooShort  = "Le mot de passe doit contenir au moins 6 caractères"
	MsgPasswordMismatch  = "Les mots de passe ne correspondent pas"
	MsgServiceRequired   = "Le service est requis"
	MsgRGPDRequired      = "Vous devez accepter les conditions d'utilisation"
	MsgEmailTaken        = "Cette adresse email est déjà utilisée"
	MsgBadCredentials    = "Invalid email or password"
)

// RegisterInput is the registration form. ConfirmPassword and RGPD are
// only checked when the client sent them.
type RegisterInput struct {
	Operator        string
	Matricule       string
	Service         string
	Email           string
	Password        string
	ConfirmPassword *string
	RGPD            *bool
}

// AccountService handles registration, login and session lookup.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
	validity    time.Duration
	now         func() time.Time
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		jwtSecret:   []byte(cfg.SecretKey),
		validity:    cfg.SessionValidity,
		now:         time.Now,
	}
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (in *RegisterInput) validate() error {
	rules := []rule{
		{value: strings.TrimSpace(in.Operator), tag: "required", msg: MsgOperatorRequired},
		{value: strings.TrimSpace(in.Matricule), tag: "required", msg: MsgMatriculeRequired},
		{value: in.Email, tag: "required,endswith=" + common.AllowedEmailDomain, msg: MsgEmailDomain},
		{value: in.Password, tag: "min=6", msg: MsgPasswordTooShort},
	}
	if in.ConfirmPassword != nil {
		rules = append(rules, rule{value: *in.ConfirmPassword, other: in.Password, tag: "eqfield", msg: MsgPasswordMismatch})
	}
	rules = append(rules, rule{value: strings.TrimSpace(in.Service), tag: "required", msg: MsgServiceRequired})
	if in.RGPD != nil {
		rules = append(rules, rule{value: *in.RGPD, tag: "eq=true", msg: MsgRGPDRequired})
	}
	return firstViolation(rules)
}

// Register creates the user and its profile in one transaction.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := in.validate(); err != nil {
		metrics.RecordRegistration("invalid")
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		metrics.RecordRegistration("error")
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{ID: uuid.NewString(), Email: in.Email, PasswordHash: hash, CreatedAt: now}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).Create(ctx, user); err != nil {
			return err
		}
		return s.repomanager.Profiles(tx).Create(ctx, &models.Profile{
			UserID:        user.ID,
			RedacteurName: strings.TrimSpace(in.Operator),
			Matricule:     strings.TrimSpace(in.Matricule),
			Service:       strings.TrimSpace(in.Service),
			UpdatedAt:     now,
		})
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			metrics.RecordRegistration("duplicate")
			return nil, common.NewValidationError(MsgEmailTaken)
		}
		metrics.RecordRegistration("error")
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	metrics.RecordRegistration("success")
	return user, nil
}

// Login checks credentials and returns a signed session token. Unknown
// email and wrong password both yield common.ErrorUnauthorized.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			metrics.RecordLogin("unknown_user")
			return "", nil, common.ErrorUnauthorized
		}
		metrics.RecordLogin("error")
		return "", nil, common.ErrorInternal
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		metrics.RecordLogin("error")
		return "", nil, common.ErrorInternal
	}
	if !ok {
		metrics.RecordLogin("bad_password")
		return "", nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.validity)
	if err != nil {
		metrics.RecordLogin("error")
		return "", nil, common.ErrorInternal
	}

	metrics.RecordLogin("success")
	return token, user, nil
}

// Authenticate turns a token into a session.
func (s *AccountService) Authenticate(token string) (auth.Session, error) {
	return auth.ParseToken(token, s.jwtSecret)
}

// CurrentUser loads the account behind sess.
func (s *AccountService) CurrentUser(ctx context.Context, sess auth.Session) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// SessionFor builds a session for the operator registered under email,
// without a password. Used by the admin command line only.
func (s *AccountService) SessionFor(ctx context.Context, email string) (auth.Session, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return auth.Session{}, fmt.Errorf("no operator with email %q: %w", email, err)
		}
		return auth.Session{}, fmt.Errorf("error loading user: %w", err)
	}
	return auth.Session{UserID: user.ID, Email: user.Email}, nil
}
