package core

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// table names shared by the storage layer and the change feed
const (
	TableStudents   = "students"
	TableAttendance = "attendance_records"
	TableSchool     = "school_profile"
	TableUser       = "user_profile"
)

type (
	DBExecutor interface {
		sqlx.ExecerContext
		sqlx.QueryerContext
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	}

	DB interface {
		DBExecutor

		BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	}

	// ChangeFeed carries table-level change events from writers to observable queries.
	ChangeFeed interface {
		Publish(tables ...string)
		Subscribe(ctx context.Context, tables ...string) <-chan struct{}
	}
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
