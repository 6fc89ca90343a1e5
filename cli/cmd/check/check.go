// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package check

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vudl/hierarchy/cli/presenter"
	ctxUtils "github.com/vudl/hierarchy/cli/util/context"
	"github.com/vudl/hierarchy/server/containment"
)

// ErrViolation is returned when the proposed placement breaks a containment rule.
var ErrViolation = errors.New("containment rule violated")

var Command = &cobra.Command{
	Use:   "check <child-pid> <parent-pid>",
	Short: "Check whether an object may be placed under a parent",
	Long: `This command checks a proposed parent relationship against the containment
rules: the parent must be able to hold the child's models, and the placement
must not create a loop in the hierarchy.

Usage examples:

	vudlctl check vudl:42 vudl:7

`,
	Args: cobra.ExactArgs(2), //nolint:mnd
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args[0], args[1])
	},
}

func runCommand(cmd *cobra.Command, child, parent string) error {
	srv, ok := ctxUtils.GetServerFromContext(cmd.Context())
	if !ok {
		return errors.New("failed to get server from context")
	}

	violation, err := srv.Validator().CheckForErrors(cmd.Context(), containment.PID(child), containment.PID(parent))
	if err != nil {
		return fmt.Errorf("failed to check placement: %w", err)
	}

	if violation != nil {
		if !opts.Quiet {
			presenter.Println(cmd, violation.Message)
		}

		return fmt.Errorf("%w: %s", ErrViolation, violation.Kind)
	}

	if !opts.Quiet {
		presenter.Println(cmd, "OK")
	}

	return nil
}
