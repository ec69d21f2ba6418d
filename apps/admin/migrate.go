package main

import (
	"github.com/trezcool/goose"

	"github.com/sveduch/sveduch/storage/database/migrations"
)

var gooseRunFunc = goose.RunFS // mockable

func (cli *commandLine) migrate(args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseRunFunc(args[0], cli.db.DB, migrations.FS, migrations.Dir, arguments...)
}
