package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-identity-sdk/identity/document"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	missing, err := store.Get(ctx, "did:mem:missing")
	require.NoError(t, err)
	assert.Nil(t, missing, "absent document is (nil, nil), not an error")

	doc := document.New("did:mem:abc")
	require.NoError(t, doc.AddService(document.Service{
		ID:              "did:mem:abc#files",
		Type:            "Storage",
		ServiceEndpoint: "https://example.com/files",
	}))
	require.NoError(t, store.Set(ctx, doc))

	got, err := store.Get(ctx, "did:mem:abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, doc.ID, got.ID)
	require.Len(t, got.Services, 1)

	// Mutating the returned copy must not leak into the store.
	got.Services[0].ServiceEndpoint = "https://tampered.example"
	again, err := store.Get(ctx, "did:mem:abc")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/files", again.Services[0].ServiceEndpoint)
}
