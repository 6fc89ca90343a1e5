// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

//nolint:wrapcheck
package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ipfs/go-datastore"
	corev1 "github.com/vudl/hierarchy/api/core/v1"
	"github.com/vudl/hierarchy/server/types"
	"github.com/vudl/hierarchy/utils/logging"
)

var logger = logging.Logger("store/cache")

const (
	objectNamespace = "objects"
	extraNamespace  = "extra"
)

// Repository is a cached RepositoryAPI that can drop cached entries.
type Repository interface {
	types.RepositoryAPI
	Purge(ctx context.Context, pid string) error
}

type store struct {
	cache  types.Datastore
	source types.RepositoryAPI
}

// Wrap caches object payloads of source in cache. Cache failures are logged and
// never fail a fetch.
func Wrap(source types.RepositoryAPI, cache types.Datastore) Repository {
	return &store{
		cache:  cache,
		source: source,
	}
}

func (s *store) FetchObject(ctx context.Context, pid string) (*corev1.ObjectData, error) {
	// read cache
	cached := &corev1.ObjectData{}
	if found, _ := s.cacheRead(ctx, getCacheKey(objectNamespace, pid), cached); found {
		return cached, nil
	}

	// fetch from source
	data, err := s.source.FetchObject(ctx, pid)
	if err != nil {
		return nil, err
	}

	// write cache
	if err := s.cacheWrite(ctx, getCacheKey(objectNamespace, pid), data); err != nil {
		logger.Debug("Failed to cache object", "pid", pid, "error", err)
	}

	return data, nil
}

func (s *store) FetchExtraDetails(ctx context.Context, pid string) (*corev1.ExtraDetails, error) {
	cached := &corev1.ExtraDetails{}
	if found, _ := s.cacheRead(ctx, getCacheKey(extraNamespace, pid), cached); found {
		return cached, nil
	}

	details, err := s.source.FetchExtraDetails(ctx, pid)
	if err != nil {
		return nil, err
	}

	if err := s.cacheWrite(ctx, getCacheKey(extraNamespace, pid), details); err != nil {
		logger.Debug("Failed to cache extra details", "pid", pid, "error", err)
	}

	return details, nil
}

// Purge removes every cached entry of pid.
func (s *store) Purge(ctx context.Context, pid string) error {
	for _, namespace := range []string{objectNamespace, extraNamespace} {
		err := s.cache.Delete(ctx, getCacheKey(namespace, pid))
		if err != nil && !errors.Is(err, datastore.ErrNotFound) {
			return err
		}
	}

	return nil
}

func (s *store) cacheRead(ctx context.Context, key datastore.Key, out any) (bool, error) {
	// read cache
	cachedData, err := s.cache.Get(ctx, key)
	if err != nil {
		return false, err
	}

	// convert object
	if err := json.Unmarshal(cachedData, out); err != nil {
		return false, err
	}

	return true, nil
}

func (s *store) cacheWrite(ctx context.Context, key datastore.Key, value any) error {
	if value == nil {
		return nil
	}

	toCache, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.cache.Put(ctx, key, toCache)
}

func getCacheKey(namespace, pid string) datastore.Key {
	return datastore.KeyWithNamespaces([]string{namespace, pid})
}
