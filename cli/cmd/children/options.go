// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package children

var opts = &options{}

type options struct {
	Descendants bool
}

func init() {
	flags := Command.Flags()
	flags.BoolVar(&opts.Descendants, "descendants", false,
		"List every indexed object with the PID among its ancestors, not only direct children.")
}
