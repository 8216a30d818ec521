package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/secundaria/core/academia"
)

func (cli *commandLine) canDelete(ctx context.Context, kind academia.EntityKind, id int64) error {
	verdict, err := cli.svc.CanDelete(ctx, kind, id)
	if err != nil {
		return errors.Wrapf(err, "checking %s %d", kind, id)
	}
	if verdict.Allowed {
		fmt.Fprintf(cli.out, "%s %d can be deleted\n", kind, id)
		return nil
	}
	fmt.Fprintf(cli.out, "%s %d cannot be deleted:\n", kind, id)
	for _, reason := range verdict.BlockingReasons {
		fmt.Fprintf(cli.out, "  - %s\n", reason)
	}
	return nil
}
