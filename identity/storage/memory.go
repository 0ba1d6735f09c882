package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pilacorp/go-identity-sdk/identity/document"
)

// MemoryStore is an in-memory DocumentStore. Documents are kept in their
// JSON form so callers never share mutable state with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty in-memory document store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Get returns a fresh copy of the stored document, or (nil, nil) when
// absent.
func (s *MemoryStore) Get(_ context.Context, id string) (*document.Document, error) {
	s.mu.RLock()
	data, exists := s.docs[id]
	s.mu.RUnlock()

	if !exists {
		return nil, nil
	}

	var doc document.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode stored document %q: %w", id, err)
	}
	return &doc, nil
}

// Set stores the document, replacing any previous version.
func (s *MemoryStore) Set(_ context.Context, doc *document.Document) error {
	if doc == nil || doc.ID == "" {
		return fmt.Errorf("document must have an id")
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %q: %w", doc.ID, err)
	}

	s.mu.Lock()
	s.docs[doc.ID] = data
	s.mu.Unlock()
	return nil
}
