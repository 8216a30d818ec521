package main

import (
	"context"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core"
	"github.com/trezcool/secundaria/core/academia"
	logsvc "github.com/trezcool/secundaria/services/logger"
	"github.com/trezcool/secundaria/storage/database"
	"github.com/trezcool/secundaria/storage/database/sqlxrepo"
)

func main() {
	conf := core.NewConfig()

	stdLogger := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}

	// set up services
	store := sqlxrepo.NewStore(db, conf.Database.QueryTimeout)
	validate := academia.NewValidator(core.NewTranslator())
	svc := academia.NewService(store, validate, logger, academia.Options{MaxLimit: conf.MaxPageLimit})

	// start CLI
	cli := commandLine{
		db:     db,
		svc:    svc,
		logger: logger,
		out:    os.Stdout,
	}
	err = cli.run(context.Background(), os.Args)
	_ = db.Close()
	if err != nil {
		if !errors.Is(err, errHelp) {
			stdLogger.Printf("\nerror: %+v\n", err)
		}
		os.Exit(1)
	}
}
