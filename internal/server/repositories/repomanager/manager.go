// Package repomanager aggregates the server's repositories behind one
// interface. Repositories are constructed per call against a dbx.DBTX so the
// same manager serves both plain connections and transactions: inside
// dbx.WithTx, pass the tx handle to get transaction-scoped repositories.
package repomanager

import (
	"github.com/conlangforge/conlangforge/internal/dbx"
	"github.com/conlangforge/conlangforge/internal/server/repositories/categories"
	"github.com/conlangforge/conlangforge/internal/server/repositories/conlangs"
	"github.com/conlangforge/conlangforge/internal/server/repositories/refreshtokens"
	"github.com/conlangforge/conlangforge/internal/server/repositories/sections"
	"github.com/conlangforge/conlangforge/internal/server/repositories/tags"
	"github.com/conlangforge/conlangforge/internal/server/repositories/users"
	"github.com/conlangforge/conlangforge/internal/server/repositories/words"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Conlangs(db dbx.DBTX) conlangs.Repository
	Words(db dbx.DBTX) words.Repository
	Sections(db dbx.DBTX) sections.Repository
	Categories(db dbx.DBTX) categories.Repository
	Tags(db dbx.DBTX) tags.Repository
}
