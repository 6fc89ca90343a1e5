// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package presenter

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Print writes to the command's output stream.
func Print(cmd *cobra.Command, a ...any) {
	_, _ = fmt.Fprint(cmd.OutOrStdout(), a...)
}

func Println(cmd *cobra.Command, a ...any) {
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), a...)
}

func Printf(cmd *cobra.Command, format string, a ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, a...)
}

// Errorf writes to the command's error stream.
func Errorf(cmd *cobra.Command, format string, a ...any) {
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), format, a...)
}
