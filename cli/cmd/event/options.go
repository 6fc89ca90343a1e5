// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package event

var opts = &options{}

type options struct {
	ID        string
	Type      string
	FromStdin bool
}

func init() {
	flags := Command.Flags()
	flags.StringVar(&opts.ID, "id", "",
		"URI of the changed object or datastream.")
	flags.StringVar(&opts.Type, "type", "",
		"Event type, ending with #<action> (e.g. https://www.w3.org/ns/activitystreams#Update).")
	flags.BoolVar(&opts.FromStdin, "stdin", false,
		"Read the event as a JSON message {id, type} from standard input. Flags override its fields.")
}
