// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package delete

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vudl/hierarchy/cli/presenter"
	ctxUtils "github.com/vudl/hierarchy/cli/util/context"
	"github.com/vudl/hierarchy/cli/util/input"
)

var Command = &cobra.Command{
	Use:   "delete [pid...]",
	Short: "Remove objects from the search index",
	Long: `This command removes the search index documents of the given objects.
Deleting an object that is not indexed succeeds.

Usage examples:

	vudlctl delete vudl:1 vudl:2

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

	for _, pid := range pids {
		if err := srv.Indexer().DeletePID(cmd.Context(), pid); err != nil {
			return fmt.Errorf("failed to delete %s: %w", pid, err)
		}

		presenter.Println(cmd, pid)
	}

	return nil
}
