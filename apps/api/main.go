package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"time"

	dig_container "github.com/trezcool/secundaria/apps/api/di/dig"
	echoapi "github.com/trezcool/secundaria/apps/api/echo"
	"github.com/trezcool/secundaria/core"
	"github.com/trezcool/secundaria/storage/database/sqlxrepo"
)

func main() {
	c := dig_container.New()

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger core.Logger,
		dbLoggerParam dig_container.DBLoggerParam,
		store *sqlxrepo.Store,
		server *echoapi.Server,
	) {
		// =========================================================================
		// Open Storage

		apiLogger.Info(fmt.Sprintf("Application initializing : version %q on %s", conf.Build, conf.Database.Engine))

		dbLogger := dbLoggerParam.Logger
		defer func() {
			if err := store.Close(); err != nil {
				dbLogger.Fatal("Failed to close", err)
			}
		}()
		defer apiLogger.Info("Application stopped")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		stats, err := store.Stats(ctx)
		cancel()
		if err != nil {
			dbLogger.Fatal(fmt.Sprintf("store not ready: %v", err), err)
			return
		}
		extras := make(map[string]interface{}, len(stats))
		for kind, n := range stats {
			extras[string(kind)] = n
		}
		dbLogger.Info("store ready", extras)

		// =========================================================================
		// Start Debug Service
		//
		// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
		// /debug/vars - Added to the default mux by importing the expvar package.

		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)
		expvar.NewString("dbEngine").Set(conf.Database.Engine)
		// row counts per entity, read on every /debug/vars hit
		expvar.Publish("academia", expvar.Func(func() interface{} {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			stats, err := store.Stats(ctx)
			if err != nil {
				return err.Error()
			}
			return stats
		}))

		go func() {
			if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
				apiLogger.Error(fmt.Sprintf("debug server closed: %v", err), err)
			}
		}()

		// =========================================================================
		// Start API Service

		go server.Start()

		// =========================================================================
		// Shutdown

		select {
		case err := <-server.Errors():
			apiLogger.Error(fmt.Sprintf("server error: %v", err), err)

		case sig := <-server.ShutdownSignal():
			apiLogger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

			// in-flight requests finish before the store closes
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				apiLogger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

				if err = server.Close(); err != nil {
					apiLogger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
				}
			}
		}
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
