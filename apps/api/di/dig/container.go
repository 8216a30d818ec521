package dig_container

import (
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/secundaria/apps/api/echo"
	"github.com/trezcool/secundaria/core"
	"github.com/trezcool/secundaria/core/academia"
	logsvc "github.com/trezcool/secundaria/services/logger"
	"github.com/trezcool/secundaria/storage/database"
	"github.com/trezcool/secundaria/storage/database/sqlxrepo"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) *sqlx.DB {
	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db
}

func newStore(conf *core.Config, db *sqlx.DB) *sqlxrepo.Store {
	return sqlxrepo.NewStore(db, conf.Database.QueryTimeout)
}

func newAcademiaStore(store *sqlxrepo.Store) academia.Store { return store }

func newAcademiaService(conf *core.Config, store academia.Store, translator ut.Translator, logger core.Logger) *academia.Service {
	validate := academia.NewValidator(translator)
	return academia.NewService(store, validate, logger, academia.Options{MaxLimit: conf.MaxPageLimit})
}

func newServer(conf *core.Config, logger core.Logger, svc *academia.Service, translator ut.Translator) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Academia:   svc,
		Translator: translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newStore))
	must(c.Provide(newAcademiaStore))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newAcademiaService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
