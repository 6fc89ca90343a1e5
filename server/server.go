// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/vudl/hierarchy/server/config"
	"github.com/vudl/hierarchy/server/containment"
	"github.com/vudl/hierarchy/server/controller"
	"github.com/vudl/hierarchy/server/datastore"
	"github.com/vudl/hierarchy/server/hierarchy"
	"github.com/vudl/hierarchy/server/indexer"
	"github.com/vudl/hierarchy/server/search/local"
	"github.com/vudl/hierarchy/server/search/sqlite"
	"github.com/vudl/hierarchy/server/store/cache"
	"github.com/vudl/hierarchy/server/store/doccache"
	"github.com/vudl/hierarchy/server/store/localfs"
	"github.com/vudl/hierarchy/server/types"
	"github.com/vudl/hierarchy/utils/logging"
)

var logger = logging.Logger("server")

type Server struct {
	config     *config.Config
	repository types.RepositoryAPI
	collector  *hierarchy.Collector
	validator  *containment.Validator
	search     types.SearchAPI
	indexer    *indexer.Indexer
	events     *controller.EventController

	closers []func() error
}

type Option func(*options)

type options struct {
	fs         afero.Fs
	registerer prometheus.Registerer
}

// WithFs replaces the filesystem used by the repository and the document cache.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithRegisterer registers the metrics of all components.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

func New(_ context.Context, cfg *config.Config, opts ...Option) (*Server, error) {
	logger.Debug("Creating server with config", "config", cfg)

	o := &options{fs: afero.NewOsFs(), registerer: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(o)
	}

	s := &Server{config: cfg}

	// Create repository
	store, err := localfs.NewWithFs(o.fs, cfg.Repository)
	if err != nil {
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}

	s.repository = store

	var eventOpts []controller.EventOption

	if cfg.Cache.Enabled {
		var dsOpts []datastore.Option
		if cacheDir := cfg.Cache.Dir; cacheDir != "" {
			dsOpts = append(dsOpts, datastore.WithFsProvider(cacheDir))
		}

		cacheDS, err := datastore.New(dsOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create cache store: %w", err)
		}

		s.closers = append(s.closers, cacheDS.Close)
		cached := cache.Wrap(store, cacheDS)
		s.repository = cached
		eventOpts = append(eventOpts, controller.WithPurger(cached))
	}

	// Create collector and validator
	s.collector = hierarchy.New(s.repository,
		hierarchy.WithMaxConcurrentFetches(cfg.Collector.MaxConcurrentFetches),
		hierarchy.WithTopLevelPIDs(cfg.TopLevelPIDs...),
		hierarchy.WithRegisterer(o.registerer),
	)

	s.validator = containment.New(
		containment.WithTrashPID(cfg.TrashPID),
		containment.WithResolver(s.collector),
	)

	// Create search index
	s.search, err = newSearch(cfg.Search)
	if err != nil {
		_ = s.Close()

		return nil, err
	}

	s.closers = append(s.closers, s.search.Close)

	// Create indexer
	s.indexer = indexer.New(s.collector, s.search,
		indexer.WithDocumentCache(doccache.New(o.fs, cfg.DocumentCache.Dir)),
		indexer.WithRegisterer(o.registerer),
	)

	s.events = controller.NewEventController(s.indexer, cfg.Events.BaseURL, eventOpts...)

	return s, nil
}

func newSearch(cfg config.SearchConfig) (types.SearchAPI, error) {
	switch cfg.Backend {
	case config.SearchBackendSQLite:
		index, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create search index: %w", err)
		}

		return index, nil

	default:
		// Create search datastore
		var dsOpts []datastore.Option
		if dstoreDir := cfg.DatastoreDir; dstoreDir != "" {
			dsOpts = append(dsOpts, datastore.WithFsProvider(dstoreDir))
		}

		dstore, err := datastore.New(dsOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create search datastore: %w", err)
		}

		return local.New(dstore), nil
	}
}

func (s *Server) Collector() *hierarchy.Collector { return s.collector }

func (s *Server) Validator() *containment.Validator { return s.validator }

func (s *Server) Search() types.SearchAPI { return s.search }

func (s *Server) Indexer() *indexer.Indexer { return s.indexer }

func (s *Server) Events() *controller.EventController { return s.events }

// Close releases the caches and the search index.
func (s *Server) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}

	s.closers = nil

	return errors.Join(errs...)
}
