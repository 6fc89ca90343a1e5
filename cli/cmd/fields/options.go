// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package fields

var opts = &options{}

type options struct {
	Names bool
}

func init() {
	flags := Command.Flags()
	flags.BoolVar(&opts.Names, "names", false,
		"Print only the sorted field names.")
}
