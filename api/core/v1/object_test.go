package corev1

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectDataLoadFromReader(t *testing.T) {
	raw := `{"pid":"vudl:1","models":["vudl-system:CoreModel"],"metadata":{"dc:title":["A","B"]},"parents":["vudl:2"]}`

	obj := &ObjectData{}
	data, err := obj.LoadFromReader(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, string(data))
	assert.Equal(t, "vudl:1", obj.GetPid())
	assert.Equal(t, []string{"A", "B"}, obj.Metadata["dc:title"])
	assert.Equal(t, []string{"vudl:2"}, obj.Parents)
}

func TestObjectDataLoadFromReaderInvalid(t *testing.T) {
	obj := &ObjectData{}
	_, err := obj.LoadFromReader(strings.NewReader("{"))
	assert.ErrorContains(t, err, "failed to unmarshal data")

	var empty *ObjectData
	assert.Empty(t, empty.GetPid())
}

func TestExtraDetailsLoadFromReader(t *testing.T) {
	d := &ExtraDetails{}
	_, err := d.LoadFromReader(strings.NewReader(`{"license_urls":["http://example.org/l"],"thumbnail_hashes":["urn:md5:abc"]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://example.org/l"}, d.LicenseURLs)
	assert.Equal(t, []string{"urn:md5:abc"}, d.ThumbnailHashes)
}
