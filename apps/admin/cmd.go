package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/secundaria/core"
	"github.com/trezcool/secundaria/core/academia"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db     *sqlx.DB
	svc    *academia.Service
	logger core.Logger
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS...]      - run a goose command (up, down, status, redo, version, ...)")
	fmt.Fprintln(cli.out, "  seed                           - load the demo dataset into an empty database")
	fmt.Fprintln(cli.out, "  candelete -kind KIND -id ID    - tell whether an entity may be deleted (KIND: curso, materia, persona, dictado, examen, evaluacion)")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	canDeleteCmd := flag.NewFlagSet("candelete", flag.ContinueOnError)
	canDeleteCmd.SetOutput(cli.out)
	canDeleteKind := canDeleteCmd.String("kind", "", "The entity kind.")
	canDeleteID := canDeleteCmd.Int64("id", 0, "The entity id (the dni for personas).")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		return cli.seed(ctx)
	case "candelete":
		if err := canDeleteCmd.Parse(args[2:]); err != nil {
			return err
		}
		kind, ok := academia.ParseEntityKind(*canDeleteKind)
		if !ok || *canDeleteID < 1 {
			canDeleteCmd.Usage()
			return errHelp
		}
		return cli.canDelete(ctx, kind, *canDeleteID)
	default:
		cli.printUsage()
		return errHelp
	}
}
