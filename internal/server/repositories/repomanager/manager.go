package repomanager

import (
	"context"
	"database/sql"

	"github.com/ruedaverde/backend/internal/dbx"
	"github.com/ruedaverde/backend/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
