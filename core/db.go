package core

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
)

// DBExecutor is implemented by both *sqlx.DB and *sqlx.Tx.
type DBExecutor interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

var (
	_ DBExecutor = (*sqlx.DB)(nil)
	_ DBExecutor = (*sqlx.Tx)(nil)
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// OrderByClause renders orderings whose field is in allowed, skipping the others.
// Returns def when nothing is left.
func OrderByClause(orderings []DBOrdering, allowed []string, def string) string {
	list := make([]string, 0, len(orderings))
	for _, ord := range orderings {
		for _, f := range allowed {
			if ord.Field == f {
				list = append(list, ord.String())
				break
			}
		}
	}
	if len(list) == 0 {
		return def
	}
	return strings.Join(list, ", ")
}
