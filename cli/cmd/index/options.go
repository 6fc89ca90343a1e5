// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package index

var opts = &options{}

type options struct {
	FromStdin bool
	KeepGoing bool
}

func init() {
	flags := Command.Flags()
	flags.BoolVar(&opts.FromStdin, "stdin", false,
		"Read PIDs from standard input, one per line. Useful for piping. "+
			"Ignored if PIDs are provided as arguments.",
	)
	flags.BoolVar(&opts.KeepGoing, "keep-going", false,
		"Continue with the remaining PIDs when one fails.")
}
