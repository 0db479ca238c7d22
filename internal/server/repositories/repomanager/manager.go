package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/cahierdeveille/internal/dbx"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/repositories/cahiers"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/repositories/communications"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/repositories/indicatifs"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Cahiers(db dbx.DBTX) cahiers.Repository
	Communications(db dbx.DBTX) communications.Repository
	Indicatifs(db dbx.DBTX) indicatifs.Repository
}
