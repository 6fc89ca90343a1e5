// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package hierarchy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vudl/hierarchy/server/object"
	"github.com/vudl/hierarchy/server/types"
	"github.com/vudl/hierarchy/utils/logging"
	"google.golang.org/grpc/status"
)

const DefaultMaxConcurrentFetches = 8

var logger = logging.Logger("hierarchy")

// Collector resolves objects and their ancestor graphs from the repository.
type Collector struct {
	repo                 types.RepositoryAPI
	maxConcurrentFetches int64
	topLevel             map[string]struct{}
	metrics              *metrics
}

type Option func(*options)

type options struct {
	maxConcurrentFetches int64
	topLevelPIDs         []string
	registerer           prometheus.Registerer
}

// WithMaxConcurrentFetches bounds the number of repository requests in flight per call.
func WithMaxConcurrentFetches(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConcurrentFetches = int64(n)
		}
	}
}

// WithTopLevelPIDs stops ancestor resolution at the given objects. Their own
// parents are neither fetched nor linked unless the object is the one requested.
func WithTopLevelPIDs(pids ...string) Option {
	return func(o *options) {
		o.topLevelPIDs = append(o.topLevelPIDs, pids...)
	}
}

// WithRegisterer registers the collector metrics.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

func New(repo types.RepositoryAPI, opts ...Option) *Collector {
	o := &options{maxConcurrentFetches: DefaultMaxConcurrentFetches}
	for _, opt := range opts {
		opt(o)
	}

	topLevel := make(map[string]struct{}, len(o.topLevelPIDs))
	for _, pid := range o.topLevelPIDs {
		topLevel[pid] = struct{}{}
	}

	return &Collector{
		repo:                 repo,
		maxConcurrentFetches: o.maxConcurrentFetches,
		topLevel:             topLevel,
		metrics:              newMetrics(o.registerer),
	}
}

func (c *Collector) isTopLevel(pid string) bool {
	_, ok := c.topLevel[pid]

	return ok
}

// GetObjectData fetches the attributes of a single object without resolving its parents.
func (c *Collector) GetObjectData(ctx context.Context, pid string) (*object.Record, error) {
	logger.Debug("Called collector's GetObjectData method", "pid", pid)

	return c.fetch(ctx, pid)
}

// GetHierarchy resolves an object together with its ancestors. With shallow set only
// the direct parents are resolved and they carry no parents of their own.
//
// Any failure aborts the whole call: a missing root is reported as NotFound, every
// ancestor failure as an upstream error. When ctx ends first the call returns the
// context error while already dispatched fetches finish in the background.
func (c *Collector) GetHierarchy(ctx context.Context, pid string, shallow bool) (*object.Record, error) {
	requestID := uuid.NewString()
	mode := "deep"
	if shallow {
		mode = "shallow"
	}

	logger.Debug("Called collector's GetHierarchy method", "pid", pid, "mode", mode, "request", requestID)

	start := time.Now()
	res := newResolution(ctx, c, pid, shallow)

	done := make(chan resolved, 1)
	go func() {
		record, err := res.run()
		done <- resolved{record: record, err: err}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Abandoned hierarchy resolution", "pid", pid, "request", requestID, "error", ctx.Err())

		return nil, types.ContextError(ctx.Err())

	case out := <-done:
		c.metrics.duration.WithLabelValues(mode).Observe(time.Since(start).Seconds())

		if out.err != nil {
			logger.Debug("Failed to resolve hierarchy", "pid", pid, "request", requestID, "error", out.err)

			return nil, out.err
		}

		logger.Debug("Resolved hierarchy", "pid", pid, "request", requestID, "objects", res.size())

		return out.record, nil
	}
}

// GetAllHierarchyTops returns the ancestors without parents, deduplicated by identity.
func (c *Collector) GetAllHierarchyTops(record *object.Record) []*object.Record {
	return record.HierarchyTops()
}

// GetAllParents returns every ancestor PID in first-seen order.
func (c *Collector) GetAllParents(record *object.Record) []string {
	return record.AllParents()
}

// GetParentTree returns the breadcrumb tree of record.
func (c *Collector) GetParentTree(record *object.Record) object.TreeNode {
	return record.ParentTree()
}

func (c *Collector) fetch(ctx context.Context, pid string) (*object.Record, error) {
	data, err := c.repo.FetchObject(ctx, pid)
	if err != nil {
		switch {
		case types.IsNotFound(err):
			c.metrics.fetches.WithLabelValues(outcomeNotFound).Inc()

			return nil, types.NotFoundError(pid)
		case ctx.Err() != nil:
			c.metrics.fetches.WithLabelValues(outcomeError).Inc()

			return nil, types.ContextError(ctx.Err())
		default:
			c.metrics.fetches.WithLabelValues(outcomeError).Inc()

			return nil, types.UpstreamError("failed to fetch %s: %s", pid, status.Convert(err).Message())
		}
	}

	if data == nil {
		c.metrics.fetches.WithLabelValues(outcomeError).Inc()

		return nil, types.UpstreamError("failed to fetch %s: empty response", pid)
	}

	if data.Pid == "" {
		data.Pid = pid
	}

	record := object.FromData(data, c.repo)
	if len(record.Models()) == 0 {
		c.metrics.fetches.WithLabelValues(outcomeError).Inc()

		return nil, types.UpstreamError("failed to fetch %s: object has no models", pid)
	}

	c.metrics.fetches.WithLabelValues(outcomeOK).Inc()

	return record, nil
}
