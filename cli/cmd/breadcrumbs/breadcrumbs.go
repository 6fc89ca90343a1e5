// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package breadcrumbs

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vudl/hierarchy/cli/presenter"
	ctxUtils "github.com/vudl/hierarchy/cli/util/context"
	"github.com/vudl/hierarchy/server/hierarchy"
)

var Command = &cobra.Command{
	Use:   "breadcrumbs <pid>",
	Short: "Print every path from a top-level collection down to an object",
	Long: `This command resolves the full ancestry of an object and prints one breadcrumb
trail per path from a top-level collection down to the object's parent.

Usage examples:

1. Human readable trails:

	vudlctl breadcrumbs vudl:123

2. JSON output for scripting:

	vudlctl breadcrumbs vudl:123 --json

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

	record, err := srv.Collector().GetHierarchy(cmd.Context(), pid, false)
	if err != nil {
		return fmt.Errorf("failed to resolve hierarchy: %w", err)
	}

	trails := hierarchy.BreadcrumbTrails(srv.Collector().GetParentTree(record))

	if opts.JSON {
		if trails == nil {
			trails = [][]hierarchy.Crumb{}
		}

		out, err := json.Marshal(trails)
		if err != nil {
			return fmt.Errorf("failed to marshal trails: %w", err)
		}

		presenter.Println(cmd, string(out))

		return nil
	}

	for _, trail := range trails {
		steps := make([]string, 0, len(trail))
		for _, crumb := range trail {
			steps = append(steps, fmt.Sprintf("%s (%s)", crumb.Title, crumb.PID))
		}

		presenter.Println(cmd, strings.Join(steps, " > "))
	}

	return nil
}
