package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/school"
	"github.com/trezcool/attendance/core/settings"
	"github.com/trezcool/attendance/core/stream"
	"github.com/trezcool/attendance/core/student"
	"github.com/trezcool/attendance/core/user"
	backupsvc "github.com/trezcool/attendance/services/backup"
	exportsvc "github.com/trezcool/attendance/services/export"
	imgsvc "github.com/trezcool/attendance/services/images"
	logsvc "github.com/trezcool/attendance/services/logger"
	"github.com/trezcool/attendance/storage/database"
	sqlxrepos "github.com/trezcool/attendance/storage/database/sqlx"
	settingstore "github.com/trezcool/attendance/storage/settings"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) *logsvc.RollbarLogger {
	stdLogger := log.New(os.Stderr, "CLI : ", log.LstdFlags)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stderr, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, error) {
	db, err := database.OpenAndMigrate(conf)
	if err != nil {
		loggerParam.Logger.Error("setting up database", err)
		return nil, err
	}
	return db, nil
}

func newSettingsStore(conf *core.Config) (settings.Store, error) {
	return settingstore.NewViperStore(conf.SettingsFile)
}

// newContainer returns the dependency injection dig.Container of the CLI
func newContainer() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(func(l *logsvc.RollbarLogger) core.Logger { return l }))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(func(db *sqlx.DB) (core.DB, core.DBExecutor) { return db, db }))
	must(c.Provide(stream.NewBroker, dig.As(new(core.ChangeFeed))))
	must(c.Provide(imgsvc.NewProcessor, dig.As(new(core.ImageProcessor))))
	must(c.Provide(newSettingsStore))

	// repositories
	must(c.Provide(sqlxrepos.NewStudentRepository))
	must(c.Provide(sqlxrepos.NewAttendanceRepository))
	must(c.Provide(sqlxrepos.NewSchoolRepository))
	must(c.Provide(sqlxrepos.NewUserRepository))
	must(c.Provide(func(repo student.Repository) attendance.Roster { return repo }))

	// services
	must(c.Provide(student.NewService))
	must(c.Provide(attendance.NewService))
	must(c.Provide(school.NewService))
	must(c.Provide(user.NewService))
	must(c.Provide(backupsvc.NewService))
	must(c.Provide(exportsvc.NewExporter))
	must(c.Provide(exportsvc.NewRunner))

	must(c.Provide(newCommandLine))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
