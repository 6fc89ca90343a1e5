// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package fields

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vudl/hierarchy/api/converters"
	"github.com/vudl/hierarchy/cli/presenter"
	ctxUtils "github.com/vudl/hierarchy/cli/util/context"
	"google.golang.org/protobuf/encoding/protojson"
)

var Command = &cobra.Command{
	Use:   "fields <pid>",
	Short: "Print the search index fields derived for an object",
	Long: `This command derives the search index document of an object without
writing it to the index.

Usage examples:

1. Full document as JSON:

	vudlctl fields vudl:123

2. Field names only:

	vudlctl fields vudl:123 --names

`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args[0])
	},
}

func runCommand(cmd *cobra.Command, pid string) error {
	srv, ok := ctxUtils.GetServerFromContext(cmd.Context())
	if !ok {
		return errors.New("failed to get server from context")
	}

	doc, err := srv.Indexer().GetFields(cmd.Context(), pid)
	if err != nil {
		return fmt.Errorf("failed to derive fields: %w", err)
	}

	s, err := converters.FieldsToStruct(doc)
	if err != nil {
		return fmt.Errorf("failed to convert fields: %w", err)
	}

	if opts.Names {
		presenter.Println(cmd, strings.Join(converters.SortedFieldNames(s), "\n"))

		return nil
	}

	out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal fields: %w", err)
	}

	presenter.Println(cmd, string(out))

	return nil
}
