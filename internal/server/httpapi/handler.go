package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/cahierdeveille/internal/logging"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/auth"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/models"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/services"
)

type Accounts interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Authenticate(token string) (auth.Session, error)
	CurrentUser(ctx context.Context, sess auth.Session) (*models.User, error)
}

type Profiles interface {
	Get(ctx context.Context, sess auth.Session) (*services.ProfileView, error)
	Update(ctx context.Context, sess auth.Session, in services.ProfileUpdate) error
	SetImage(ctx context.Context, sess auth.Session, kind, dataURL string) error
}

type Cahiers interface {
	Save(ctx context.Context, sess auth.Session, in services.SaveInput) (*models.CahierDetail, error)
	Get(ctx context.Context, sess auth.Session, id int64) (*models.CahierDetail, error)
	List(ctx context.Context, sess auth.Session, archived bool) ([]models.Cahier, error)
	DeleteCommunication(ctx context.Context, sess auth.Session, cahierID, commID int64) error
	Archive(ctx context.Context, sess auth.Session, id int64) error
	SaveLegacy(ctx context.Context, sess auth.Session, event services.EventDetails, comms []models.Communication) (*services.LegacyCahier, error)
	Export(ctx context.Context, sess auth.Session, id int64) ([]byte, string, error)
}

type Indicatifs interface {
	List(ctx context.Context, sess auth.Session, cahierID int64) ([]string, error)
	Add(ctx context.Context, sess auth.Session, cahierID int64, label string) error
	Remove(ctx context.Context, sess auth.Session, cahierID int64, label string) error
}

type Dashboard interface {
	Get(ctx context.Context, sess auth.Session) (*models.Dashboard, error)
}

// Services groups the business logic the handlers call into.
type Services struct {
	Accounts   Accounts
	Profiles   Profiles
	Cahiers    Cahiers
	Indicatifs Indicatifs
	Dashboard  Dashboard
}

// Options tunes the router.
type Options struct {
	CORSOrigins     []string
	RateLimit       int // login/register requests per minute and IP, 0 disables
	StaticDir       string
	SecureCookie    bool
	SessionValidity time.Duration
	Health          func(ctx context.Context) error
}

type Handler struct {
	Services
	opts   Options
	logger logging.Logger
}

func NewHandler(svc Services, opts Options, l logging.Logger) *Handler {
	return &Handler{Services: svc, opts: opts, logger: l.With("module", "httpapi")}
}
