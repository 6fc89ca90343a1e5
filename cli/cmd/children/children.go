// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package children

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vudl/hierarchy/cli/presenter"
	ctxUtils "github.com/vudl/hierarchy/cli/util/context"
)

const (
	parentField   = "hierarchy_parent_id"
	ancestorField = "hierarchy_all_parents_str_mv"
)

var Command = &cobra.Command{
	Use:   "children <pid>",
	Short: "List indexed objects contained in a collection",
	Long: `This command queries the search index for objects placed under a PID.
Only indexed objects are listed.

Usage examples:

	vudlctl children vudl:1
	vudlctl children vudl:1 --descendants

`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args[0])
	},
}

func runCommand(cmd *cobra.Command, pid string) error {
	srv, ok := ctxUtils.GetServerFromContext(cmd.Context())
	if !ok {
		return errors.New("failed to get server from context")
	}

	field := parentField
	if opts.Descendants {
		field = ancestorField
	}

	ids, err := srv.Search().Find(cmd.Context(), field, pid)
	if err != nil {
		return fmt.Errorf("failed to query index: %w", err)
	}

	for _, id := range ids {
		presenter.Println(cmd, id)
	}

	return nil
}
