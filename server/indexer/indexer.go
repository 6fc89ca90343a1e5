// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package indexer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vudl/hierarchy/server/object"
	"github.com/vudl/hierarchy/server/store/doccache"
	"github.com/vudl/hierarchy/server/types"
	"github.com/vudl/hierarchy/utils/logging"
	"google.golang.org/grpc/status"
)

var logger = logging.Logger("indexer")

const thumbnailHashType = "md5"

// HierarchyResolver resolves an object together with its ancestors.
type HierarchyResolver interface {
	GetHierarchy(ctx context.Context, pid string, shallow bool) (*object.Record, error)
}

// Indexer keeps the search index in sync with the repository.
type Indexer struct {
	resolver HierarchyResolver
	search   types.SearchAPI
	docs     *doccache.Cache

	indexed prometheus.Counter
	deleted prometheus.Counter
	failed  *prometheus.CounterVec
}

type Option func(*Indexer)

// WithDocumentCache also writes derived documents to cache.
func WithDocumentCache(cache *doccache.Cache) Option {
	return func(i *Indexer) {
		i.docs = cache
	}
}

// WithRegisterer registers the indexer metrics.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(i *Indexer) {
		i.newMetrics(reg)
	}
}

func New(resolver HierarchyResolver, search types.SearchAPI, opts ...Option) *Indexer {
	i := &Indexer{
		resolver: resolver,
		search:   search,
	}
	i.newMetrics(nil)

	for _, opt := range opts {
		opt(i)
	}

	return i
}

func (i *Indexer) newMetrics(reg prometheus.Registerer) {
	factory := promauto.With(reg)

	i.indexed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "vudl",
		Subsystem: "indexer",
		Name:      "indexed_total",
		Help:      "Documents written to the search index.",
	})
	i.deleted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "vudl",
		Subsystem: "indexer",
		Name:      "deleted_total",
		Help:      "Documents removed from the search index.",
	})
	i.failed = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vudl",
		Subsystem: "indexer",
		Name:      "failures_total",
		Help:      "Failed index operations by operation.",
	}, []string{"operation"})
}

// GetFields resolves pid with all of its ancestors and derives its search document.
func (i *Indexer) GetFields(ctx context.Context, pid string) (types.Document, error) {
	logger.Debug("Called indexer's GetFields method", "pid", pid)

	record, err := i.resolver.GetHierarchy(ctx, pid, false)
	if err != nil {
		st := status.Convert(err)

		return nil, status.Errorf(st.Code(), "failed to resolve %s: %s", pid, st.Message())
	}

	fields := DeriveFields(record)
	addExtendedFields(ctx, fields, record)

	return fields, nil
}

// IndexPID derives the document of pid and stores it in the search index.
func (i *Indexer) IndexPID(ctx context.Context, pid string) (types.Document, error) {
	fields, err := i.GetFields(ctx, pid)
	if err != nil {
		i.failed.WithLabelValues("index").Inc()

		return nil, err
	}

	if err := i.search.Index(ctx, fields); err != nil {
		i.failed.WithLabelValues("index").Inc()

		st := status.Convert(err)

		return nil, status.Errorf(st.Code(), "failed to index %s: %s", pid, st.Message())
	}

	if i.docs.Enabled() {
		if err := i.cacheDocument(pid, fields); err != nil {
			logger.Warn("Failed to cache document", "pid", pid, "error", err)
		}
	}

	i.indexed.Inc()
	logger.Info("Indexed object", "pid", pid)

	return fields, nil
}

// DeletePID removes pid from the search index and the document cache.
func (i *Indexer) DeletePID(ctx context.Context, pid string) error {
	if err := i.search.Delete(ctx, pid); err != nil {
		i.failed.WithLabelValues("delete").Inc()

		st := status.Convert(err)

		return status.Errorf(st.Code(), "failed to delete %s: %s", pid, st.Message())
	}

	if err := i.docs.Purge(pid); err != nil {
		logger.Warn("Failed to purge cached document", "pid", pid, "error", err)
	}

	i.deleted.Inc()
	logger.Info("Deleted object from index", "pid", pid)

	return nil
}

func (i *Indexer) cacheDocument(pid string, fields types.Document) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	return i.docs.Write(pid, raw) //nolint:wrapcheck
}

// addExtendedFields adds fields from the extraction bundle. They are best effort:
// a failed fetch is logged and leaves the document without them.
func addExtendedFields(ctx context.Context, fields types.Document, record *object.Record) {
	if _, err := record.ExtraDetails(ctx); err != nil {
		logger.Warn("Skipping extended fields", "pid", record.PID(), "error", err)

		return
	}

	// errors were memoized above, so the getters below cannot fail
	text, _ := record.FullText(ctx)
	if len(text) > 0 {
		fields["fulltext"] = text
	}

	if license, _ := record.License(ctx); license != "" {
		fields["license.url_str"] = license
	}

	if mimetypes, _ := record.MimeType(ctx); len(mimetypes) > 0 {
		fields["mimetype_str_mv"] = mimetypes
	}

	single := map[string]func(context.Context) (string, error){
		"filesize_str":       record.FileSize,
		"width_str":          record.ImageWidth,
		"height_str":         record.ImageHeight,
		"thumbnail_hash_str": func(ctx context.Context) (string, error) { return record.ThumbnailHash(ctx, thumbnailHashType) },
	}
	for field, get := range single {
		if value, _ := get(ctx); value != "" {
			fields[field] = value
		}
	}
}
