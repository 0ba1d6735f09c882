// Package storage defines the document store the identity connector writes
// through, plus an in-memory implementation for tests and in-process use.
package storage

import (
	"context"

	"github.com/pilacorp/go-identity-sdk/identity/document"
)

// DocumentStore persists one DID document per identity, keyed by document
// id. Get returns (nil, nil) when no document exists; the caller decides
// whether that is a not-found failure.
type DocumentStore interface {
	Get(ctx context.Context, id string) (*document.Document, error)
	Set(ctx context.Context, doc *document.Document) error
}
