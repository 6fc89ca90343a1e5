// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package hierarchy

import (
	"context"
	"errors"
	"sync"

	"github.com/vudl/hierarchy/server/object"
	"github.com/vudl/hierarchy/server/types"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/status"
)

type resolved struct {
	record *object.Record
	err    error
}

// errStopped marks a branch that was not started because the call is over.
var errStopped = errors.New("resolution stopped")

// resolution holds the state of a single GetHierarchy call. Records are shared
// only within one call so every PID is fetched at most once per call.
type resolution struct {
	collector *Collector
	caller    context.Context //nolint:containedctx
	rootPID   string
	shallow   bool

	// fetches run on a context detached from the caller; aborted is done once
	// any branch failed.
	fetchCtx context.Context //nolint:containedctx
	aborted  context.Context //nolint:containedctx

	sem    *semaphore.Weighted
	flight singleflight.Group

	mu       sync.RWMutex
	records  map[string]*object.Record
	expanded map[string]struct{}
	// records whose parents were dispatched and must be linked
	linked map[string]struct{}
}

func newResolution(caller context.Context, c *Collector, pid string, shallow bool) *resolution {
	return &resolution{
		collector: c,
		caller:    caller,
		rootPID:   pid,
		shallow:   shallow,
		fetchCtx:  context.WithoutCancel(caller),
		sem:       semaphore.NewWeighted(c.maxConcurrentFetches),
		records:   make(map[string]*object.Record),
		expanded:  make(map[string]struct{}),
		linked:    make(map[string]struct{}),
	}
}

func (r *resolution) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.records)
}

// stopped reports whether new branches must not start: the caller is gone or
// another branch already failed.
func (r *resolution) stopped() bool {
	return r.caller.Err() != nil || r.aborted.Err() != nil
}

// run discovers every reachable record and then links parents from the memo.
// A failing branch or a cancelled caller stops further dispatch, but fetches
// already in flight run to completion.
func (r *resolution) run() (*object.Record, error) {
	group, aborted := errgroup.WithContext(r.fetchCtx)
	r.aborted = aborted

	group.Go(func() error {
		return r.visit(group, r.rootPID, "", 0)
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	if err := r.caller.Err(); err != nil {
		return nil, types.ContextError(err)
	}

	return r.link()
}

func (r *resolution) visit(group *errgroup.Group, pid, child string, depth int) error {
	record, err := r.record(pid)
	if err != nil {
		if errors.Is(err, errStopped) {
			return nil
		}

		if child == "" {
			return err
		}

		return types.UpstreamError("failed to resolve parent %s of %s: %s", pid, child, status.Convert(err).Message())
	}

	if !r.claim(pid) {
		return nil
	}

	if r.shallow && depth > 0 {
		return nil
	}

	if depth > 0 && r.collector.isTopLevel(pid) {
		return nil
	}

	r.mu.Lock()
	r.linked[pid] = struct{}{}
	r.mu.Unlock()

	for _, parentPID := range record.ParentPIDs() {
		if parentPID == r.rootPID {
			continue
		}

		if r.stopped() {
			return nil
		}

		group.Go(func() error {
			return r.visit(group, parentPID, pid, depth+1)
		})
	}

	return nil
}

// record returns the memoized record for pid, fetching it once if needed.
func (r *resolution) record(pid string) (*object.Record, error) {
	r.mu.RLock()
	record, ok := r.records[pid]
	r.mu.RUnlock()

	if ok {
		r.collector.metrics.memoHits.Inc()

		return record, nil
	}

	value, err, shared := r.flight.Do(pid, func() (any, error) {
		r.mu.RLock()
		cached, ok := r.records[pid]
		r.mu.RUnlock()

		if ok {
			return cached, nil
		}

		if err := r.sem.Acquire(r.aborted, 1); err != nil {
			return nil, errStopped
		}
		defer r.sem.Release(1)

		if r.stopped() {
			return nil, errStopped
		}

		fetched, err := r.collector.fetch(r.fetchCtx, pid)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.records[pid] = fetched
		r.mu.Unlock()

		return fetched, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		r.collector.metrics.memoHits.Inc()
	}

	return value.(*object.Record), nil //nolint:forcetypeassert
}

// claim reports whether the caller is the first to expand pid.
func (r *resolution) claim(pid string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.expanded[pid]; ok {
		return false
	}

	r.expanded[pid] = struct{}{}

	return true
}

func (r *resolution) link() (*object.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	root, ok := r.records[r.rootPID]
	if !ok {
		return nil, types.UpstreamError("failed to resolve %s: record missing after discovery", r.rootPID)
	}

	linkParents := func(record *object.Record) error {
		for _, parentPID := range record.ParentPIDs() {
			parent, ok := r.records[parentPID]
			if !ok {
				return types.UpstreamError("failed to resolve parent %s of %s: record missing after discovery", parentPID, record.PID())
			}

			record.AddParent(parent)
		}

		return nil
	}

	for pid := range r.linked {
		if err := linkParents(r.records[pid]); err != nil {
			return nil, err
		}
	}

	return root, nil
}
