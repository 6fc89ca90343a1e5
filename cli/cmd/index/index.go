// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vudl/hierarchy/cli/presenter"
	ctxUtils "github.com/vudl/hierarchy/cli/util/context"
	"github.com/vudl/hierarchy/cli/util/input"
)

var Command = &cobra.Command{
	Use:   "index [pid...]",
	Short: "Derive and store search index documents",
	Long: `This command resolves each object's hierarchy, derives its search index
document and writes it to the configured search backend.

Usage examples:

1. Index some objects:

	vudlctl index vudl:1 vudl:2

2. PIDs from standard input. Useful for piping:

	cat pids.txt | vudlctl index --stdin

`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pids, err := input.ReadPIDs(args, opts.FromStdin, cmd.InOrStdin())
		if err != nil {
			return err //nolint:wrapcheck
		}

		return runCommand(cmd, pids)
	},
}

func runCommand(cmd *cobra.Command, pids []string) error {
	srv, ok := ctxUtils.GetServerFromContext(cmd.Context())
	if !ok {
		return errors.New("failed to get server from context")
	}

	var errs []error

	for _, pid := range pids {
		if _, err := srv.Indexer().IndexPID(cmd.Context(), pid); err != nil {
			err = fmt.Errorf("failed to index %s: %w", pid, err)
			if !opts.KeepGoing {
				return err
			}

			presenter.Errorf(cmd, "%v\n", err)
			errs = append(errs, err)

			continue
		}

		presenter.Println(cmd, pid)
	}

	return errors.Join(errs...)
}
