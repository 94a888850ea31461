package main

import (
	"github.com/trezcool/attendance/storage/database"
)

var gooseRunFunc = database.RunMigrations // mockable

func (cli *commandLine) migrate(args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	if err := gooseRunFunc(cli.db.DB, args[0], arguments...); err != nil {
		return err
	}
	cli.success("migrate " + args[0] + ": done")
	return nil
}
