// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

//nolint:testifylint
package doccache

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestDisabledByDefault(t *testing.T) {
	fsys := afero.NewMemMapFs()
	cache := New(fsys, "")

	assert.False(t, cache.Enabled())

	file, err := cache.Path("vudl:123")
	require.NoError(t, err)
	assert.Empty(t, file)

	require.NoError(t, cache.Write("vudl:123", []byte("foo")))
	require.NoError(t, cache.Purge("vudl:123"))

	list, err := cache.List()
	require.NoError(t, err)
	assert.Nil(t, list)

	entries, err := afero.ReadDir(fsys, "/")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPath(t *testing.T) {
	cache := New(afero.NewMemMapFs(), "/foo")

	tests := []struct {
		pid  string
		want string
	}{
		{pid: "vudl:123", want: "/foo/vudl/000/000/123/123.json"},
		{pid: "vudl:12345678901", want: "/foo/vudl/345/678/901/12345678901.json"},
		{pid: "other:1", want: "/foo/other/000/000/001/1.json"},
	}

	for _, tt := range tests {
		t.Run(tt.pid, func(t *testing.T) {
			file, err := cache.Path(tt.pid)
			require.NoError(t, err)
			assert.Equal(t, tt.want, file)
		})
	}

	for _, pid := range []string{"nocolon", ":1", "vudl:", "vudl:../1"} {
		_, err := cache.Path(pid)
		assert.Equal(t, codes.InvalidArgument, status.Code(err), pid)
	}
}

func TestWriteReadPurge(t *testing.T) {
	fsys := afero.NewMemMapFs()
	cache := New(fsys, "/foo/")

	require.NoError(t, cache.Write("vudl:123", []byte("foo")))

	exists, err := afero.Exists(fsys, "/foo/vudl/000/000/123/123.json")
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := cache.Read("vudl:123")
	require.NoError(t, err)
	assert.Equal(t, []byte("foo"), data)

	require.NoError(t, cache.Purge("vudl:123"))

	data, err = cache.Read("vudl:123")
	require.NoError(t, err)
	assert.Nil(t, data)

	// purging a missing document is not an error
	assert.NoError(t, cache.Purge("vudl:12345678901"))
}

func TestList(t *testing.T) {
	cache := New(afero.NewMemMapFs(), "/foo")

	list, err := cache.List()
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, cache.Write("vudl:2", []byte("two")))
	require.NoError(t, cache.Write("vudl:1", []byte("one")))
	require.NoError(t, cache.Write("vudl:12345678901", []byte("big")))

	list, err = cache.List()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/foo/vudl/000/000/001/1.json",
		"/foo/vudl/000/000/002/2.json",
		"/foo/vudl/345/678/901/12345678901.json",
	}, list)
}
