package services

import (
	"bytes"
	"context"
	"database/sql"
	"image"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cahierdeveille/internal/dbx"
	"github.com/dmitrijs2005/cahierdeveille/internal/logging"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/auth"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/blobstore"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/config"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/repositories/repomanager"
)

// --- helpers ---

type testEnv struct {
	db         *sql.DB
	accounts   *AccountService
	profiles   *ProfileService
	cahiers    *CahierService
	indicatifs *IndicatifService
	dashboard  *DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := dbx.Open(ctx, dbx.DriverSQLite, filepath.Join(t.TempDir(), "test.db"), dbx.PoolOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m, err := repomanager.NewRepositoryManager(dbx.DriverSQLite)
	require.NoError(t, err)
	require.NoError(t, m.RunMigrations(ctx, db))

	fs, err := blobstore.NewFSStore(t.TempDir())
	require.NoError(t, err)
	blobs := blobstore.NewSealedStore(fs, "test-key")

	cfg := &config.Config{SecretKey: "k", SessionValidity: time.Hour}
	log := logging.Nop{}

	profiles := NewProfileService(db, m, blobs, log)
	return &testEnv{
		db:         db,
		accounts:   NewAccountService(db, m, cfg),
		profiles:   profiles,
		cahiers:    NewCahierService(db, m, profiles, nil, log),
		indicatifs: NewIndicatifService(db, m),
		dashboard:  NewDashboardService(db, m, profiles),
	}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func validRegistration() RegisterInput {
	return RegisterInput{
		Operator:        "J. Dupont",
		Matricule:       "1234",
		Service:         "Patrouille",
		Email:           "j.dupont@police.belgium.eu",
		Password:        "secret1",
		ConfirmPassword: strPtr("secret1"),
		RGPD:            boolPtr(true),
	}
}

// register creates an operator and returns its session.
func (e *testEnv) register(t *testing.T, email string) auth.Session {
	t.Helper()
	in := validRegistration()
	in.Email = email
	u, err := e.accounts.Register(context.Background(), in)
	require.NoError(t, err)
	return auth.Session{UserID: u.ID, Email: u.Email}
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}
