// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/vudl/hierarchy/cli/cmd/breadcrumbs"
	"github.com/vudl/hierarchy/cli/cmd/check"
	"github.com/vudl/hierarchy/cli/cmd/children"
	deletecmd "github.com/vudl/hierarchy/cli/cmd/delete"
	"github.com/vudl/hierarchy/cli/cmd/event"
	"github.com/vudl/hierarchy/cli/cmd/fields"
	"github.com/vudl/hierarchy/cli/cmd/index"
	ctxUtils "github.com/vudl/hierarchy/cli/util/context"
	"github.com/vudl/hierarchy/server"
	"github.com/vudl/hierarchy/server/config"
)

var (
	configPath string

	// srv is the server of the running command, closed by Execute.
	srv *server.Server
)

var RootCmd = &cobra.Command{
	Use:   "vudlctl",
	Short: "Inspect and index the VuDL object hierarchy",
	Long: `vudlctl resolves the containment hierarchy of repository objects, derives their
search index fields and keeps the search index in step with repository changes.

Configuration is read from /etc/vudl/vudl.config.yml or the file given with --config.
Every setting can be overridden from the environment, e.g. VUDL_SEARCH_BACKEND=sqlite.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if !cmd.HasParent() || cmd.Name() == "help" {
			return nil
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// A fresh registry per run keeps repeated runs in one process from
		// colliding on metric registration.
		srv, err = server.New(cmd.Context(), cfg, server.WithRegisterer(prometheus.NewRegistry()))
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		cmd.SetContext(ctxUtils.SetServerForContext(cmd.Context(), srv))

		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to the configuration file. Uses /etc/vudl/vudl.config.yml when empty.")

	RootCmd.AddCommand(
		breadcrumbs.Command,
		check.Command,
		children.Command,
		deletecmd.Command,
		event.Command,
		fields.Command,
		index.Command,
	)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadConfigFile(configPath) //nolint:wrapcheck
	}

	return config.LoadConfig() //nolint:wrapcheck
}

// Execute runs the command tree and closes the server afterwards, also when
// the command failed.
func Execute(ctx context.Context) error {
	// Subcommands keep the context of a previous run unless reset.
	for _, c := range RootCmd.Commands() {
		c.SetContext(ctx)
	}

	err := RootCmd.ExecuteContext(ctx)

	if srv != nil {
		err = errors.Join(err, srv.Close())
		srv = nil
	}

	return err
}
