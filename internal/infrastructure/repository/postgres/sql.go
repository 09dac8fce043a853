package postgres

import (
	"database/sql"

	crerr "github.com/cockroachdb/errors"
	"github.com/lib/pq"
)

const codeUndefinedTable = pq.ErrorCode("42P01")

func isNotFound(err error) bool {
	return crerr.Is(err, sql.ErrNoRows)
}

// isUndefinedTable reports a query against a schema that was never migrated.
func isUndefinedTable(err error) bool {
	var pqErr *pq.Error
	if !crerr.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == codeUndefinedTable
}
