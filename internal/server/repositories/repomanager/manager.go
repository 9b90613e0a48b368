package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/waterbot/internal/dbx"
	"github.com/dmitrijs2005/waterbot/internal/server/repositories/recoverytokens"
	"github.com/dmitrijs2005/waterbot/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/waterbot/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a connection or a
// transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	RecoveryTokens(db dbx.DBTX) recoverytokens.Repository
}
