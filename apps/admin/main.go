package main

import (
	"log"
	"os"

	"github.com/sveduch/sveduch/core"
	"github.com/sveduch/sveduch/services/logger"
	"github.com/sveduch/sveduch/storage/database"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stderr, "SVEDUCH : ", log.LstdFlags)

	conf, err := core.LoadConfig()
	errAndDie(err)
	appLogger := logsvc.NewRollbarLogger(logger, conf)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	errAndDie(database.Migrate(db))

	// start CLI
	cli := newCommandLine(db, conf, appLogger, os.Stdout)
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			if !core.IsValidation(err) {
				appLogger.Error("command failed", map[string]interface{}{"command": os.Args[1]}, err)
			}
			logger.Printf("\nerror: %s\n", describeErr(err))
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(describeErr(err))
	}
}
