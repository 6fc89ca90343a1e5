// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vudl/hierarchy/cli/presenter"
	ctxUtils "github.com/vudl/hierarchy/cli/util/context"
	"github.com/vudl/hierarchy/server/controller"
)

var Command = &cobra.Command{
	Use:   "event",
	Short: "Apply a repository change event to the search index",
	Long: `This command applies one repository change notification: objects that were
created or updated are reindexed, purged objects are removed from the index.

Usage examples:

1. From flags:

	vudlctl event --id http://fedora/rest/vudl:1 --type https://www.w3.org/ns/activitystreams#Update

2. From a JSON message on standard input:

	echo '{"id":"http://fedora/rest/vudl:1","type":"...#Delete"}' | vudlctl event --stdin

`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var ev controller.Event

		if opts.FromStdin {
			if err := json.NewDecoder(cmd.InOrStdin()).Decode(&ev); err != nil {
				return fmt.Errorf("failed to decode event: %w", err)
			}
		}

		if opts.ID != "" {
			ev.ID = opts.ID
		}

		if opts.Type != "" {
			ev.Type = opts.Type
		}

		if ev.ID == "" || ev.Type == "" {
			return errors.New("both an event id and type are required")
		}

		return runCommand(cmd, ev)
	},
}

func runCommand(cmd *cobra.Command, ev controller.Event) error {
	srv, ok := ctxUtils.GetServerFromContext(cmd.Context())
	if !ok {
		return errors.New("failed to get server from context")
	}

	action, err := srv.Events().Handle(cmd.Context(), ev)
	if err != nil {
		return fmt.Errorf("failed to handle event: %w", err)
	}

	presenter.Println(cmd, action)

	return nil
}
