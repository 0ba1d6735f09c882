// Package profile manages public/private profile metadata keyed by identity
// string, independent of DID documents.
package profile

import (
	"context"
)

// Profile is the metadata record of one identity. The public and private
// parts are free-form JSON objects; the split exists so callers can expose
// the public part while keeping the private part behind access control.
type Profile struct {
	Identity       string                 `json:"identity"`
	PublicProfile  map[string]interface{} `json:"publicProfile,omitempty"`
	PrivateProfile map[string]interface{} `json:"privateProfile,omitempty"`
}

// Store is the persistence boundary for profiles. Get returns (nil, nil)
// when no profile exists for the identity.
type Store interface {
	Get(ctx context.Context, identity string) (*Profile, error)
	Set(ctx context.Context, profile *Profile) error
	Delete(ctx context.Context, identity string) error
	List(ctx context.Context) ([]*Profile, error)
}
