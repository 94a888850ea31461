package sqlxrepos

import (
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// namedParams turns "a, b" into ":a, :b".
func namedParams(columns string) string {
	return ":" + strings.ReplaceAll(columns, ", ", ", :")
}

func where(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// inClause expands the IN (?) placeholder of query for every value of args.
func inClause(query string, args ...interface{}) (string, []interface{}, error) {
	q, a, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, errors.Wrap(err, "building IN clause")
	}
	return q, a, nil
}
