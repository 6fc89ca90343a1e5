// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package delete

var opts = &options{}

type options struct {
	FromStdin bool
}

func init() {
	flags := Command.Flags()
	flags.BoolVar(&opts.FromStdin, "stdin", false,
		"Read PIDs from standard input, one per line. Ignored if PIDs are provided as arguments.")
}
