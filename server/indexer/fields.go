// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package indexer

import (
	"slices"
	"strings"

	"github.com/vudl/hierarchy/server/object"
	"github.com/vudl/hierarchy/server/types"
)

const (
	sequenceWidth   = 10
	browseSeparator = "{{{_ID_}}}"
	multiTextSuffix = "_txt_mv"
)

// Alias is a derived field that copies values from a metadata field.
type Alias struct {
	Field  string
	Source string
}

var (
	// CopyAliases copy the full value list of their source.
	CopyAliases = []Alias{
		{Field: "author", Source: "dc.creator_txt_mv"},
		{Field: "author2", Source: "dc.contributor_txt_mv"},
		{Field: "description", Source: "dc.description_txt_mv"},
		{Field: "format", Source: "dc.format_txt_mv"},
		{Field: "publisher", Source: "dc.publisher_txt_mv"},
		{Field: "publisher_str_mv", Source: "dc.publisher_txt_mv"},
		{Field: "series", Source: "dc.relation_txt_mv"},
		{Field: "topic", Source: "dc.subject_txt_mv"},
		{Field: "topic_str_mv", Source: "dc.subject_txt_mv"},
	}

	// FirstValueAliases copy the first value of their source.
	FirstValueAliases = []Alias{
		{Field: "dc_date_str", Source: "dc.date_txt_mv"},
		{Field: "dc_relation_str", Source: "dc.relation_txt_mv"},
		{Field: "dc_title_str", Source: "dc.title_txt_mv"},
		{Field: "publishDate", Source: "dc.date_txt_mv"},
		{Field: "publishDateSort", Source: "dc.date_txt_mv"},
		{Field: "title", Source: "dc.title_txt_mv"},
		{Field: "title_full", Source: "dc.title_txt_mv"},
		{Field: "title_short", Source: "dc.title_txt_mv"},
		{Field: "title_sort", Source: "dc.title_txt_mv"},
	}

	// SecondaryValueAliases copy every value after the first, when there is one.
	SecondaryValueAliases = []Alias{
		{Field: "title_alt", Source: "dc.title_txt_mv"},
	}
)

// DeriveFields flattens a resolved record into a search document. The record is
// expected to carry its full ancestor graph.
func DeriveFields(record *object.Record) types.Document {
	fields := types.Document{
		"id":                           record.PID(),
		"modeltype_str_mv":             record.Models(),
		"datastream_str_mv":            record.Datastreams(),
		"hierarchy_all_parents_str_mv": record.AllParents(),
	}

	if record.HasModel(object.ModelFolder) {
		fields["is_hierarchy_id"] = record.PID()
		fields["is_hierarchy_title"] = record.Title()
	}

	addSequences(fields, record.PID(), record.Sequences(), record.ParentPIDs())
	addTops(fields, record.HierarchyTops())
	addParents(fields, browseParents(record))

	metadata := record.Metadata()
	for _, key := range sortedKeys(metadata) {
		fields[fieldName("", key)] = metadata[key]
	}

	addAliases(fields)

	relations := record.Relations()
	for _, key := range sortedKeys(relations) {
		fields[fieldName("relsext.", key)] = relations[key]
	}

	details := record.Details()
	for _, key := range sortedKeys(details) {
		fields[fieldName("fgs.", key)] = details[key]
	}

	return fields
}

// padNumber left-pads num with zeros to ten digits. Longer numbers keep only
// their last ten digits.
func padNumber(num string) string {
	padded := strings.Repeat("0", sequenceWidth) + num

	return padded[len(padded)-sequenceWidth:]
}

// addSequences emits one sort field per "<parent>#<position>" entry. Entries
// naming a PID that is not a parent are still emitted; those PIDs are returned.
func addSequences(fields types.Document, pid string, sequences, parents []string) []string {
	var unknown []string

	for _, sequence := range sequences {
		parentPID, position, ok := strings.Cut(sequence, "#")
		if !ok || parentPID == "" {
			logger.Debug("Skipping malformed sequence", "sequence", sequence)

			continue
		}

		// position may itself contain '#'; only the part before it counts
		position, _, _ = strings.Cut(position, "#")

		if !slices.Contains(parents, parentPID) {
			logger.Warn("Sequence names an object that is not a parent", "pid", pid, "sequence", sequence, "parents", parents)

			unknown = append(unknown, parentPID)
		}

		fields["sequence_"+strings.ReplaceAll(parentPID, ":", "_")+"_str"] = padNumber(position)
	}

	return unknown
}

func addTops(fields types.Document, tops []*object.Record) {
	if len(tops) == 0 {
		return
	}

	ids := make([]string, 0, len(tops))
	titles := make([]string, 0, len(tops))

	for _, top := range tops {
		if slices.Contains(ids, top.PID()) {
			continue
		}

		ids = append(ids, top.PID())
		titles = append(titles, top.Title())
	}

	fields["hierarchy_top_id"] = ids
	fields["hierarchy_top_title"] = titles
}

// browseParents returns the parents used for browsing. Data objects skip their
// intermediate list and report its parents instead.
func browseParents(record *object.Record) []*object.Record {
	isData := record.HasModel(object.ModelData)

	var parents []*object.Record

	for _, parent := range record.Parents() {
		if isData {
			parents = append(parents, parent.Parents()...)
		} else {
			parents = append(parents, parent)
		}
	}

	return parents
}

func addParents(fields types.Document, parents []*object.Record) {
	if len(parents) == 0 {
		return
	}

	fields["hierarchy_first_parent_id_str"] = parents[0].PID()

	var ids, titles, browse []string

	for _, parent := range parents {
		if slices.Contains(ids, parent.PID()) {
			continue
		}

		ids = append(ids, parent.PID())
		titles = append(titles, parent.Title())
		browse = append(browse, parent.Title()+browseSeparator+parent.PID())
	}

	fields["hierarchy_parent_id"] = ids
	fields["hierarchy_parent_title"] = titles
	fields["hierarchy_browse"] = browse
}

func addAliases(fields types.Document) {
	for _, alias := range CopyAliases {
		if fields.Has(alias.Source) {
			fields[alias.Field] = fields.Strings(alias.Source)
		}
	}

	for _, alias := range FirstValueAliases {
		if values := fields.Strings(alias.Source); len(values) > 0 {
			fields[alias.Field] = values[0]
		}
	}

	for _, alias := range SecondaryValueAliases {
		if values := fields.Strings(alias.Source); len(values) > 1 {
			fields[alias.Field] = values[1:]
		}
	}
}

func fieldName(prefix, key string) string {
	return prefix + strings.ReplaceAll(key, ":", ".") + multiTextSuffix
}

func sortedKeys(values map[string][]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}
