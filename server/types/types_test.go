// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestDocumentAccessors(t *testing.T) {
	doc := Document{
		"id":    "vudl:1",
		"multi": []string{"a", "b"},
		"any":   []any{"x", 1, "y"},
	}

	assert.Equal(t, "vudl:1", doc.ID())
	assert.Equal(t, "a", doc.String("multi"))
	assert.Equal(t, []string{"vudl:1"}, doc.Strings("id"))
	assert.Equal(t, []string{"x", "y"}, doc.Strings("any"))
	assert.Empty(t, doc.String("missing"))
	assert.Nil(t, doc.Strings("missing"))
	assert.True(t, doc.Has("multi"))
	assert.False(t, doc.Has("missing"))

	values := doc.Strings("multi")
	values[0] = "changed"
	assert.Equal(t, "a", doc.String("multi"))
}

func TestErrorClassification(t *testing.T) {
	notFound := NotFoundError("vudl:9")
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsUpstream(notFound))
	assert.ErrorContains(t, notFound, "vudl:9")

	upstream := UpstreamError("failed to fetch %s", "vudl:9")
	assert.True(t, IsUpstream(upstream))
	assert.False(t, IsNotFound(upstream))

	assert.False(t, IsNotFound(nil))
	assert.False(t, IsUpstream(errors.New("plain")))
}

func TestContextError(t *testing.T) {
	assert.Equal(t, codes.Canceled, status.Code(ContextError(context.Canceled)))
	assert.Equal(t, codes.DeadlineExceeded, status.Code(ContextError(fmt.Errorf("wrapped: %w", context.DeadlineExceeded))))

	plain := errors.New("plain")
	assert.Equal(t, plain, ContextError(plain))
}
