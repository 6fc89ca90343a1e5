// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

//nolint:testifylint
package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "github.com/vudl/hierarchy/api/core/v1"
	"github.com/vudl/hierarchy/server/datastore"
	"github.com/vudl/hierarchy/server/store/testutil"
	"github.com/vudl/hierarchy/server/types"
)

func newCached(t *testing.T, objects ...*corev1.ObjectData) (Repository, *testutil.Repository) {
	t.Helper()

	dstore, err := datastore.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = dstore.Close() })

	source := testutil.NewRepository(objects...)

	return Wrap(source, dstore), source
}

func TestRepositoryContract(t *testing.T) {
	objects := []*corev1.ObjectData{
		testutil.NewObject("vudl:1", "Top"),
		testutil.NewObject("vudl:2", "Child", "vudl:1"),
	}
	repo, _ := newCached(t, objects...)

	testutil.TestRepositoryOperations(t, repo, t.Context(), objects...)
}

func TestFetchObjectIsCached(t *testing.T) {
	ctx := t.Context()
	repo, source := newCached(t, testutil.NewObject("vudl:1", "Top"))

	first, err := repo.FetchObject(ctx, "vudl:1")
	require.NoError(t, err)

	second, err := repo.FetchObject(ctx, "vudl:1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.Calls("vudl:1"))

	// cached payload survives removal upstream until purged
	source.Remove("vudl:1")

	_, err = repo.FetchObject(ctx, "vudl:1")
	require.NoError(t, err)

	require.NoError(t, repo.Purge(ctx, "vudl:1"))

	_, err = repo.FetchObject(ctx, "vudl:1")
	assert.True(t, types.IsNotFound(err))
}

func TestFetchExtraDetailsIsCached(t *testing.T) {
	ctx := t.Context()
	repo, source := newCached(t, testutil.NewObject("vudl:1", "Top"))
	source.AddExtra("vudl:1", &corev1.ExtraDetails{LicenseURLs: []string{"http://license"}})

	for range 3 {
		details, err := repo.FetchExtraDetails(ctx, "vudl:1")
		require.NoError(t, err)
		assert.Equal(t, []string{"http://license"}, details.LicenseURLs)
	}

	assert.Equal(t, 1, source.ExtraCalls("vudl:1"))
}

func TestFailuresAreNotCached(t *testing.T) {
	ctx := t.Context()
	repo, source := newCached(t, testutil.NewObject("vudl:1", "Top"))
	source.Fail("vudl:1", errors.New("unavailable"))

	_, err := repo.FetchObject(ctx, "vudl:1")
	require.Error(t, err)

	source.Recover("vudl:1")

	_, err = repo.FetchObject(ctx, "vudl:1")
	require.NoError(t, err)
	assert.Equal(t, 2, source.Calls("vudl:1"))
}

func TestPurgeUnknown(t *testing.T) {
	repo, _ := newCached(t)
	assert.NoError(t, repo.Purge(t.Context(), "vudl:404"))
}
