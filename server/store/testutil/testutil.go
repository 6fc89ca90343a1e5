// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/stretchr/testify/assert"
	corev1 "github.com/vudl/hierarchy/api/core/v1"
	"github.com/vudl/hierarchy/server/object"
	"github.com/vudl/hierarchy/server/types"
)

var DefaultModels = []string{object.ModelCore, object.ModelCollection, object.ModelFolder}

// NewObject creates object data with the default models.
func NewObject(pid, title string, parents ...string) *corev1.ObjectData {
	data := &corev1.ObjectData{
		Pid:     pid,
		Models:  append([]string{}, DefaultModels...),
		Parents: parents,
	}

	if title != "" {
		data.Metadata = map[string][]string{"dc:title": {title}}
	}

	return data
}

// Repository is an in-memory RepositoryAPI that records its calls.
type Repository struct {
	mu         sync.Mutex
	objects    map[string]*corev1.ObjectData
	extras     map[string]*corev1.ExtraDetails
	failures   map[string]error
	extraFails map[string]error
	calls      map[string]int
	extraCalls map[string]int
	gate       chan struct{}
	gates      map[string]chan struct{}
	cancelled  map[string]int
	completed  map[string]int

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func NewRepository(objects ...*corev1.ObjectData) *Repository {
	r := &Repository{
		objects:    make(map[string]*corev1.ObjectData),
		extras:     make(map[string]*corev1.ExtraDetails),
		failures:   make(map[string]error),
		extraFails: make(map[string]error),
		calls:      make(map[string]int),
		extraCalls: make(map[string]int),
		gates:      make(map[string]chan struct{}),
		cancelled:  make(map[string]int),
		completed:  make(map[string]int),
	}

	return r.Add(objects...)
}

func (r *Repository) Add(objects ...*corev1.ObjectData) *Repository {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, obj := range objects {
		r.objects[obj.GetPid()] = obj
	}

	return r
}

func (r *Repository) AddExtra(pid string, details *corev1.ExtraDetails) *Repository {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.extras[pid] = details

	return r
}

func (r *Repository) Remove(pid string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.objects, pid)
	delete(r.extras, pid)
}

// Fail makes every fetch of pid return err.
func (r *Repository) Fail(pid string, err error) *Repository {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failures[pid] = err

	return r
}

// FailExtra makes every extra details fetch of pid return err.
func (r *Repository) FailExtra(pid string, err error) *Repository {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.extraFails[pid] = err

	return r
}

// Recover clears a failure set with Fail.
func (r *Repository) Recover(pid string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.failures, pid)
	delete(r.extraFails, pid)
}

// Block holds all object fetches until the returned function is called.
func (r *Repository) Block() func() {
	gate := make(chan struct{})

	r.mu.Lock()
	r.gate = gate
	r.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() { close(gate) })
	}
}

// BlockPID holds fetches of pid until the returned function is called.
func (r *Repository) BlockPID(pid string) func() {
	gate := make(chan struct{})

	r.mu.Lock()
	r.gates[pid] = gate
	r.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() { close(gate) })
	}
}

func (r *Repository) Calls(pid string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.calls[pid]
}

func (r *Repository) ExtraCalls(pid string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.extraCalls[pid]
}

// Cancelled counts fetches of pid that gave up because their context was done.
func (r *Repository) Cancelled(pid string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.cancelled[pid]
}

// Completed counts fetches of pid that returned without error.
func (r *Repository) Completed(pid string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.completed[pid]
}

func (r *Repository) TotalCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, n := range r.calls {
		total += n
	}

	return total
}

// MaxInFlight reports the highest number of concurrent object fetches observed.
func (r *Repository) MaxInFlight() int {
	return int(r.maxInFlight.Load())
}

func (r *Repository) FetchObject(ctx context.Context, pid string) (*corev1.ObjectData, error) {
	r.mu.Lock()
	r.calls[pid]++
	gate := r.gate
	if pidGate, ok := r.gates[pid]; ok {
		gate = pidGate
	}
	r.mu.Unlock()

	current := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)

	for {
		peak := r.maxInFlight.Load()
		if current <= peak || r.maxInFlight.CompareAndSwap(peak, current) {
			break
		}
	}

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			r.mu.Lock()
			r.cancelled[pid]++
			r.mu.Unlock()

			return nil, types.ContextError(ctx.Err())
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err, ok := r.failures[pid]; ok {
		return nil, err
	}

	data, ok := r.objects[pid]
	if !ok {
		return nil, types.NotFoundError(pid)
	}

	r.completed[pid]++

	return cloneObject(data), nil
}

func (r *Repository) FetchExtraDetails(_ context.Context, pid string) (*corev1.ExtraDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.extraCalls[pid]++

	if err, ok := r.extraFails[pid]; ok {
		return nil, err
	}

	if err, ok := r.failures[pid]; ok {
		return nil, err
	}

	details, ok := r.extras[pid]
	if !ok {
		return &corev1.ExtraDetails{}, nil
	}

	return details, nil
}

func cloneObject(data *corev1.ObjectData) *corev1.ObjectData {
	out := *data
	out.Models = append([]string(nil), data.Models...)
	out.Parents = append([]string(nil), data.Parents...)
	out.Datastreams = append([]string(nil), data.Datastreams...)
	out.Sequences = append([]string(nil), data.Sequences...)

	return &out
}

// TestRepositoryOperations checks that repo serves the seeded objects and reports missing ones as NotFound.
func TestRepositoryOperations(t assert.TestingT, repo types.RepositoryAPI, ctx context.Context, seeded ...*corev1.ObjectData) {
	for _, want := range seeded {
		got, err := repo.FetchObject(ctx, want.GetPid())
		if !assert.NoError(t, err, "fetch failed") {
			continue
		}

		assert.Equal(t, want.GetPid(), got.GetPid())
		assert.Equal(t, want.Models, got.Models)
		assert.Equal(t, want.Parents, got.Parents)
		assert.Equal(t, want.Metadata, got.Metadata)

		_, err = repo.FetchExtraDetails(ctx, want.GetPid())
		assert.NoError(t, err, "extra details fetch failed")
	}

	_, err := repo.FetchObject(ctx, "missing:0")
	assert.Error(t, err, "fetch of an unknown object should fail")
	assert.True(t, types.IsNotFound(err), "unknown object should be reported as not found")
}
