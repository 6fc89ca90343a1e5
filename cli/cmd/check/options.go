// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package check

var opts = &options{}

type options struct {
	Quiet bool
}

func init() {
	flags := Command.Flags()
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false,
		"Print nothing; report the result through the exit status only.")
}
