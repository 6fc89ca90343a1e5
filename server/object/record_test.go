// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

//nolint:testifylint
package object

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "github.com/vudl/hierarchy/api/core/v1"
)

type countingFetcher struct {
	calls   atomic.Int32
	details *corev1.ExtraDetails
	err     error
}

func (f *countingFetcher) FetchExtraDetails(_ context.Context, _ string) (*corev1.ExtraDetails, error) {
	f.calls.Add(1)

	return f.details, f.err
}

func newRecord(pid string, title string, models ...string) *Record {
	data := &corev1.ObjectData{Pid: pid, Models: models}
	if title != "" {
		data.Metadata = map[string][]string{"dc:title": {title}}
	}

	return FromData(data, nil)
}

func TestFromData(t *testing.T) {
	data := &corev1.ObjectData{
		Pid: "vudl:10",
		Metadata: map[string][]string{
			"dc:title":   {"First", "Second"},
			"dc:creator": {"Someone"},
		},
		Datastreams: []string{"MASTER", "THUMBNAIL"},
		Parents:     []string{"vudl:5"},
		Details: map[string][]string{
			"hasModel": {"info:fedora/vudl-system:CoreModel", "info:fedora/vudl-system:DataModel"},
			"sequence": {"vudl:5#3"},
		},
		Relations: map[string][]string{"isMemberOf": {"info:fedora/vudl:5"}},
	}

	r := FromData(data, nil)
	assert.Equal(t, "vudl:10", r.PID())
	assert.Equal(t, "First", r.Title())
	assert.Equal(t, []string{ModelCore, ModelData}, r.Models())
	assert.True(t, r.HasModel(ModelData))
	assert.False(t, r.HasModel(ModelList))
	assert.Equal(t, []string{"vudl:5#3"}, r.Sequences())
	assert.Equal(t, []string{"vudl:5"}, r.ParentPIDs())
	assert.Equal(t, []string{"MASTER", "THUMBNAIL"}, r.Datastreams())
	assert.Equal(t, []string{"info:fedora/vudl:5"}, r.Relations()["isMemberOf"])
	assert.Len(t, r.Details(), 2)
	assert.Empty(t, r.Parents())

	// the record keeps its own copy of the payload
	data.Metadata["dc:title"][0] = "Changed"
	assert.Equal(t, "First", r.Title())

	md := r.Metadata()
	md["dc:title"][0] = "Changed"
	assert.Equal(t, "First", r.Title())
}

func TestFromDataExplicitModelsWin(t *testing.T) {
	r := FromData(&corev1.ObjectData{
		Pid:       "vudl:1",
		Models:    []string{ModelCollection},
		Sequences: []string{"vudl:2#1"},
		Details: map[string][]string{
			"hasModel": {"info:fedora/vudl-system:DataModel"},
			"sequence": {"vudl:9#9"},
		},
	}, nil)

	assert.Equal(t, []string{ModelCollection}, r.Models())
	assert.Equal(t, []string{"vudl:2#1"}, r.Sequences())
	assert.Empty(t, r.Title())
}

func TestExtraDetailsFetchedOnce(t *testing.T) {
	fetcher := &countingFetcher{details: &corev1.ExtraDetails{
		FullText:        []string{"some   text\n\twith  gaps"},
		Technical:       map[string][]string{"size": {"1024"}, "mimetype": {"image/tiff", "image/x-tiff"}, "imageWidth": {"640"}, "imageHeight": {"480"}},
		LicenseURLs:     []string{"http://rightsstatements.org/vocab/InC/1.0/"},
		ThumbnailHashes: []string{"urn:sha1:aaa", "urn:md5:bbb", "bogus"},
	}}
	r := FromData(&corev1.ObjectData{Pid: "vudl:1"}, fetcher)
	ctx := t.Context()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := r.ExtraDetails(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	text, err := r.FullText(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"some text with gaps"}, text)

	hash, err := r.ThumbnailHash(ctx, "md5")
	require.NoError(t, err)
	assert.Equal(t, "bbb", hash)

	hash, err = r.ThumbnailHash(ctx, "sha256")
	require.NoError(t, err)
	assert.Empty(t, hash)

	size, _ := r.FileSize(ctx)
	assert.Equal(t, "1024", size)

	width, _ := r.ImageWidth(ctx)
	height, _ := r.ImageHeight(ctx)
	assert.Equal(t, "640", width)
	assert.Equal(t, "480", height)

	mime, _ := r.MimeType(ctx)
	assert.Equal(t, []string{"image/tiff", "image/x-tiff"}, mime)

	license, _ := r.License(ctx)
	assert.Equal(t, "http://rightsstatements.org/vocab/InC/1.0/", license)

	missing, err := r.TechnicalValue(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, missing)

	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestExtraDetailsErrorMemoised(t *testing.T) {
	fetcher := &countingFetcher{err: errors.New("extractor down")}
	r := FromData(&corev1.ObjectData{Pid: "vudl:1"}, fetcher)

	_, err := r.License(t.Context())
	assert.ErrorContains(t, err, "extractor down")

	_, err = r.FullText(t.Context())
	assert.Error(t, err)
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestExtraDetailsWithoutFetcher(t *testing.T) {
	r := newRecord("vudl:1", "")

	details, err := r.ExtraDetails(t.Context())
	require.NoError(t, err)
	assert.NotNil(t, details)

	license, err := r.License(t.Context())
	require.NoError(t, err)
	assert.Empty(t, license)
}
