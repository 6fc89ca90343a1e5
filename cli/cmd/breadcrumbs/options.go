// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package breadcrumbs

var opts = &options{}

type options struct {
	JSON bool
}

func init() {
	flags := Command.Flags()
	flags.BoolVar(&opts.JSON, "json", false,
		"Print the trails as a JSON array of arrays of {pid, title}.")
}
