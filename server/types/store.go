// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"

	"github.com/ipfs/go-datastore"
	corev1 "github.com/vudl/hierarchy/api/core/v1"
)

// ExtraDetailsFetcher retrieves the extraction bundle of a single object.
type ExtraDetailsFetcher interface {
	// FetchExtraDetails returns full text, technical metadata, license and thumbnail hashes.
	FetchExtraDetails(ctx context.Context, pid string) (*corev1.ExtraDetails, error)
}

// RepositoryAPI handles read access to the remote object repository.
type RepositoryAPI interface {
	ExtraDetailsFetcher

	// FetchObject returns the raw attributes of a single object.
	// A missing object is reported with a codes.NotFound status.
	FetchObject(ctx context.Context, pid string) (*corev1.ObjectData, error)
}

// SearchAPI handles the search index that consumes derived documents.
type SearchAPI interface {
	// Index adds or replaces the document identified by its "id" field
	Index(ctx context.Context, doc Document) error

	// Delete removes a document from the index
	Delete(ctx context.Context, id string) error

	// Get returns a stored document
	Get(ctx context.Context, id string) (Document, error)

	// Find returns the ids of documents with the given field value
	Find(ctx context.Context, field, value string) ([]string, error)

	// Match returns the ids of documents matching every term
	Match(ctx context.Context, terms ...Term) ([]string, error)

	Close() error
}

// Term is one field value constraint of a search.
type Term struct {
	Field string
	Value string
}

// Datastore is the key/value backend used for caches and local indexes.
type Datastore interface {
	datastore.Batching
}
