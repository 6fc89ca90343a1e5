// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package datastore

import (
	"fmt"

	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/sync"
	badger "github.com/ipfs/go-ds-badger"
	"github.com/vudl/hierarchy/server/types"
)

type options struct {
	fsDir string
}

type Option func(*options)

// WithFsProvider persists the datastore under dir using badger.
func WithFsProvider(dir string) Option {
	return func(o *options) {
		o.fsDir = dir
	}
}

// New creates a datastore. Without options the datastore lives in memory.
func New(opts ...Option) (types.Datastore, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.fsDir == "" {
		return sync.MutexWrap(datastore.NewMapDatastore()), nil
	}

	dstore, err := badger.NewDatastore(o.fsDir, &badger.DefaultOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create badger datastore: %w", err)
	}

	return dstore, nil
}
