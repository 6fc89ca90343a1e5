// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"context"
	"slices"
	"sync"

	corev1 "github.com/vudl/hierarchy/api/core/v1"
	"github.com/vudl/hierarchy/server/types"
)

const titleField = "dc:title"

// Record is the in-memory view of one repository object and its resolved parents.
//
// Parent records are shared, not owned: the same *Record can be a parent of many
// children within one resolution. Records live for a single resolution request.
type Record struct {
	pid         string
	models      []string
	metadata    map[string][]string
	datastreams []string
	sequences   []string
	parentPIDs  []string
	details     map[string][]string
	relations   map[string][]string

	parents []*Record

	extra extraDetails
}

type extraDetails struct {
	fetcher types.ExtraDetailsFetcher
	once    sync.Once
	details *corev1.ExtraDetails
	err     error
}

// FromData builds a record from a repository payload. The fetcher is used to load
// extra details on demand and may be nil.
func FromData(data *corev1.ObjectData, fetcher types.ExtraDetailsFetcher) *Record {
	r := &Record{
		pid:         data.Pid,
		metadata:    cloneValues(data.Metadata),
		datastreams: slices.Clone(data.Datastreams),
		parentPIDs:  slices.Clone(data.Parents),
		details:     cloneValues(data.Details),
		relations:   cloneValues(data.Relations),
	}
	r.extra.fetcher = fetcher

	models := data.Models
	if len(models) == 0 {
		models = data.Details["hasModel"]
	}

	r.models = make([]string, 0, len(models))
	for _, model := range models {
		r.models = append(r.models, normalizeModel(model))
	}

	r.sequences = slices.Clone(data.Sequences)
	if len(r.sequences) == 0 {
		r.sequences = slices.Clone(data.Details["sequence"])
	}

	return r
}

func (r *Record) PID() string { return r.pid }

// Title returns the first dc:title value, or an empty string.
func (r *Record) Title() string {
	if values := r.metadata[titleField]; len(values) > 0 {
		return values[0]
	}

	return ""
}

func (r *Record) Models() []string { return slices.Clone(r.models) }

func (r *Record) HasModel(model string) bool { return HasModel(r.models, model) }

func (r *Record) Metadata() map[string][]string { return cloneValues(r.metadata) }

func (r *Record) Datastreams() []string { return slices.Clone(r.datastreams) }

// Sequences returns the raw "<parentPid>#<position>" strings of the object.
func (r *Record) Sequences() []string { return slices.Clone(r.sequences) }

// ParentPIDs returns the direct parent PIDs as reported by the repository.
func (r *Record) ParentPIDs() []string { return slices.Clone(r.parentPIDs) }

func (r *Record) Details() map[string][]string { return cloneValues(r.details) }

func (r *Record) Relations() map[string][]string { return cloneValues(r.relations) }

// Parents returns the resolved parent records.
func (r *Record) Parents() []*Record { return slices.Clone(r.parents) }

// AddParent links a resolved parent record.
func (r *Record) AddParent(parent *Record) {
	r.parents = append(r.parents, parent)
}

// ExtraDetails returns the extraction bundle, fetching it on first use.
// Both the result and the error are memoised.
func (r *Record) ExtraDetails(ctx context.Context) (*corev1.ExtraDetails, error) {
	r.extra.once.Do(func() {
		if r.extra.fetcher == nil {
			r.extra.details = &corev1.ExtraDetails{}

			return
		}

		r.extra.details, r.extra.err = r.extra.fetcher.FetchExtraDetails(ctx, r.pid)
		if r.extra.err == nil && r.extra.details == nil {
			r.extra.details = &corev1.ExtraDetails{}
		}
	})

	return r.extra.details, r.extra.err
}

func cloneValues(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = slices.Clone(v)
	}

	return out
}
