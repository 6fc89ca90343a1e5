// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

// Package local implements the search index on a key/value datastore.
//
// Documents are stored as JSON under "/docs/<id>". Every string value of a
// document adds a label key "/labels/<field>/<value>/<id>", so a field lookup
// is a prefix query. Label counts are kept to start multi-term queries from the
// least common label.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/query"
	"github.com/vudl/hierarchy/server/types"
	"github.com/vudl/hierarchy/utils/logging"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Values longer than this are stored but not labelled.
const maxLabelValue = 256

const docsPrefix = "/docs"

var logger = logging.Logger("search/local")

type Index struct {
	dstore types.Datastore

	// serializes writes so label counts stay consistent
	mu sync.Mutex
}

func New(dstore types.Datastore) *Index {
	return &Index{dstore: dstore}
}

func (s *Index) Index(ctx context.Context, doc types.Document) error {
	logger.Debug("Called local index's Index method", "id", doc.ID())

	id := doc.ID()
	if id == "" {
		return status.Errorf(codes.InvalidArgument, "invalid document: missing id")
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "failed to encode document: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	metrics, err := loadMetrics(ctx, s.dstore)
	if err != nil {
		return status.Errorf(codes.Internal, "failed to load metrics: %v", err)
	}

	batch, err := s.dstore.Batch(ctx)
	if err != nil {
		return status.Errorf(codes.Internal, "failed to create batch: %v", err)
	}

	// drop labels of the previous version
	previous, err := s.get(ctx, id)
	if err != nil && !types.IsNotFound(err) {
		return err
	}

	oldLabels := getLabels(previous)
	newLabels := getLabels(doc)

	for _, label := range oldLabels {
		if slices.Contains(newLabels, label) {
			continue
		}

		if err := batch.Delete(ctx, labelKey(label, id)); err != nil {
			return status.Errorf(codes.Internal, "failed to delete label key: %v", err)
		}

		metrics.decrement(label)
	}

	for _, label := range newLabels {
		if slices.Contains(oldLabels, label) {
			continue
		}

		if err := batch.Put(ctx, labelKey(label, id), nil); err != nil {
			return status.Errorf(codes.Internal, "failed to put label key: %v", err)
		}

		metrics.increment(label)
	}

	if err := batch.Put(ctx, documentKey(id), raw); err != nil {
		return status.Errorf(codes.Internal, "failed to put document: %v", err)
	}

	if err := batch.Commit(ctx); err != nil {
		return status.Errorf(codes.Internal, "failed to commit batch: %v", err)
	}

	// sync metrics
	if err := metrics.update(ctx, s.dstore); err != nil {
		return status.Errorf(codes.Internal, "failed to update metrics: %v", err)
	}

	logger.Debug("Indexed document", "id", id, "labels", len(newLabels))

	return nil
}

// Delete removes a document. Unknown ids are ignored.
func (s *Index) Delete(ctx context.Context, id string) error {
	logger.Debug("Called local index's Delete method", "id", id)

	if id == "" {
		return status.Errorf(codes.InvalidArgument, "invalid document: missing id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, err := s.get(ctx, id)
	if types.IsNotFound(err) {
		return nil
	}

	if err != nil {
		return err
	}

	metrics, err := loadMetrics(ctx, s.dstore)
	if err != nil {
		return status.Errorf(codes.Internal, "failed to load metrics: %v", err)
	}

	batch, err := s.dstore.Batch(ctx)
	if err != nil {
		return status.Errorf(codes.Internal, "failed to create batch: %v", err)
	}

	if err := batch.Delete(ctx, documentKey(id)); err != nil {
		return status.Errorf(codes.Internal, "failed to delete document: %v", err)
	}

	for _, label := range getLabels(previous) {
		if err := batch.Delete(ctx, labelKey(label, id)); err != nil {
			return status.Errorf(codes.Internal, "failed to delete label key: %v", err)
		}

		metrics.decrement(label)
	}

	if err := batch.Commit(ctx); err != nil {
		return status.Errorf(codes.Internal, "failed to commit batch: %v", err)
	}

	if err := metrics.update(ctx, s.dstore); err != nil {
		return status.Errorf(codes.Internal, "failed to update metrics: %v", err)
	}

	return nil
}

func (s *Index) Get(ctx context.Context, id string) (types.Document, error) {
	return s.get(ctx, id)
}

func (s *Index) Find(ctx context.Context, field, value string) ([]string, error) {
	return s.Match(ctx, types.Term{Field: field, Value: value})
}

func (s *Index) Match(ctx context.Context, terms ...types.Term) ([]string, error) {
	logger.Debug("Called local index's Match method", "terms", terms)

	// without terms every stored document matches
	if len(terms) == 0 {
		return s.query(ctx, docsPrefix, nil)
	}

	labels := make([]string, 0, len(terms))
	for _, term := range terms {
		labels = append(labels, label(term.Field, term.Value))
	}

	metrics, err := loadMetrics(ctx, s.dstore)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to load metrics: %v", err)
	}

	// start from the least common label, filter by the rest
	leastCommonLabel := labels[0]
	for _, l := range labels {
		if metrics.total(l) < metrics.total(leastCommonLabel) {
			leastCommonLabel = l
		}
	}

	var filters []query.Filter

	for _, l := range labels {
		if l != leastCommonLabel {
			filters = append(filters, &labelFilter{
				dstore: s.dstore,
				ctx:    ctx,
				label:  l,
			})
		}
	}

	return s.query(ctx, leastCommonLabel, filters)
}

// query returns the sorted document ids ending the keys under prefix.
func (s *Index) query(ctx context.Context, prefix string, filters []query.Filter) ([]string, error) {
	res, err := s.dstore.Query(ctx, query.Query{
		Prefix:   prefix,
		Filters:  filters,
		KeysOnly: true,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to query datastore: %v", err)
	}
	defer res.Close()

	var ids []string

	for entry := range res.Next() {
		if entry.Error != nil {
			return nil, status.Errorf(codes.Internal, "failed to read query result: %v", entry.Error)
		}

		id, err := url.PathUnescape(path.Base(entry.Key))
		if err != nil {
			logger.Error("Failed to decode document id", "key", entry.Key, "error", err)

			continue
		}

		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}

	slices.Sort(ids)

	return ids, nil
}

// Labels returns every label with its document count.
func (s *Index) Labels(ctx context.Context) (map[string]uint64, error) {
	metrics, err := loadMetrics(ctx, s.dstore)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to load metrics: %v", err)
	}

	out := make(map[string]uint64, len(metrics.Data))
	for _, l := range metrics.labels() {
		out[l] = metrics.total(l)
	}

	return out, nil
}

func (s *Index) Close() error {
	return s.dstore.Close() //nolint:wrapcheck
}

func (s *Index) get(ctx context.Context, id string) (types.Document, error) {
	raw, err := s.dstore.Get(ctx, documentKey(id))
	if errors.Is(err, datastore.ErrNotFound) {
		return nil, status.Errorf(codes.NotFound, "document not found: %s", id)
	}

	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to read document: %v", err)
	}

	doc := types.Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to decode document: %v", err)
	}

	return doc, nil
}

var _ query.Filter = (*labelFilter)(nil)

//nolint:containedctx
type labelFilter struct {
	dstore types.Datastore
	ctx    context.Context

	label string
}

func (s *labelFilter) Filter(e query.Entry) bool {
	has, _ := s.dstore.Has(s.ctx, datastore.NewKey(s.label+"/"+path.Base(e.Key)))

	return has
}

func documentKey(id string) datastore.Key {
	return datastore.NewKey(docsPrefix + "/" + escape(id))
}

func labelKey(label, id string) datastore.Key {
	return datastore.NewKey(label + "/" + escape(id))
}

func label(field, value string) string {
	return "/labels/" + escape(field) + "/" + escape(value)
}

// escape makes s a single key segment. Dot segments would be cleaned away.
func escape(s string) string {
	escaped := url.PathEscape(s)
	if strings.Trim(escaped, ".") == "" {
		escaped = strings.ReplaceAll(escaped, ".", "%2E")
	}

	return escaped
}

// getLabels returns the labels of doc without duplicates, sorted.
func getLabels(doc types.Document) []string {
	seen := make(map[string]struct{})

	for field := range doc {
		for _, value := range doc.Strings(field) {
			if value == "" || len(value) > maxLabelValue {
				continue
			}

			seen[label(field, value)] = struct{}{}
		}
	}

	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}

	slices.Sort(labels)

	return labels
}
