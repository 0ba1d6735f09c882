// Package vault defines the key/secret vault boundary the identity
// connector depends on, plus an in-memory implementation. Private key
// material never leaves the vault except through GetKey; documents only
// carry public parts.
package vault

import (
	"context"
)

// KeyAlgorithm selects the curve for a created key.
type KeyAlgorithm string

const (
	AlgEd25519   KeyAlgorithm = "Ed25519"
	AlgSecp256k1 KeyAlgorithm = "Secp256k1"
)

// Key is a stored keypair. For Ed25519 the private key is the 32-byte seed;
// for Secp256k1 it is the 32-byte scalar, with the public key in compressed
// form.
type Key struct {
	Algorithm  KeyAlgorithm
	PrivateKey []byte
	PublicKey  []byte
}

// Connector is the boundary to the external key vault.
type Connector interface {
	// CreateKey generates a key under id and returns the public part.
	// Fails if a key already exists under id.
	CreateKey(ctx context.Context, id string, algorithm KeyAlgorithm) ([]byte, error)

	// GetKey returns the keypair stored under id.
	GetKey(ctx context.Context, id string) (*Key, error)

	// RenameKey moves a key from oldID to newID, replacing any key already
	// stored under newID. Used to commit a temporary key under its final
	// document-scoped id.
	RenameKey(ctx context.Context, oldID, newID string) error

	// Sign signs data with the key stored under id.
	Sign(ctx context.Context, id string, data []byte) ([]byte, error)

	// SetSecret stores an opaque secret value under id.
	SetSecret(ctx context.Context, id string, value []byte) error

	// GetSecret returns the secret stored under id.
	GetSecret(ctx context.Context, id string) ([]byte, error)
}
