package vault

import (
	"context"
	"fmt"
	"sync"

	idcrypto "github.com/pilacorp/go-identity-sdk/identity/common/crypto"
)

// MemoryVault is an in-memory Connector. Safe for concurrent use.
type MemoryVault struct {
	mu      sync.RWMutex
	keys    map[string]*Key
	secrets map[string][]byte
}

// NewMemoryVault creates an empty in-memory vault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{
		keys:    make(map[string]*Key),
		secrets: make(map[string][]byte),
	}
}

// CreateKey generates a keypair under id and returns the public part.
func (v *MemoryVault) CreateKey(_ context.Context, id string, algorithm KeyAlgorithm) ([]byte, error) {
	if id == "" {
		return nil, fmt.Errorf("key id is empty")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if _, exists := v.keys[id]; exists {
		return nil, fmt.Errorf("key %q already exists", id)
	}

	key := &Key{Algorithm: algorithm}
	switch algorithm {
	case AlgEd25519:
		kp, err := idcrypto.GenerateEd25519()
		if err != nil {
			return nil, err
		}
		key.PrivateKey = kp.Seed
		key.PublicKey = kp.PublicKey
	case AlgSecp256k1:
		priv, pub, err := idcrypto.GenerateSecp256k1()
		if err != nil {
			return nil, err
		}
		key.PrivateKey = priv
		key.PublicKey = pub
	default:
		return nil, fmt.Errorf("unrecognized key algorithm %q", algorithm)
	}

	v.keys[id] = key
	return append([]byte(nil), key.PublicKey...), nil
}

// GetKey returns a copy of the keypair stored under id.
func (v *MemoryVault) GetKey(_ context.Context, id string) (*Key, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	key, exists := v.keys[id]
	if !exists {
		return nil, fmt.Errorf("key %q not found", id)
	}
	return &Key{
		Algorithm:  key.Algorithm,
		PrivateKey: append([]byte(nil), key.PrivateKey...),
		PublicKey:  append([]byte(nil), key.PublicKey...),
	}, nil
}

// RenameKey moves a key to a new id, replacing any key already stored
// there.
func (v *MemoryVault) RenameKey(_ context.Context, oldID, newID string) error {
	if oldID == "" || newID == "" {
		return fmt.Errorf("key ids must be non-empty")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	key, exists := v.keys[oldID]
	if !exists {
		return fmt.Errorf("key %q not found", oldID)
	}
	v.keys[newID] = key
	delete(v.keys, oldID)
	return nil
}

// Sign signs data with the key stored under id.
func (v *MemoryVault) Sign(_ context.Context, id string, data []byte) ([]byte, error) {
	v.mu.RLock()
	key, exists := v.keys[id]
	v.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("key %q not found", id)
	}

	switch key.Algorithm {
	case AlgEd25519:
		kp := idcrypto.Ed25519KeyPair{Seed: key.PrivateKey, PublicKey: key.PublicKey}
		return kp.Sign(data)
	case AlgSecp256k1:
		return idcrypto.Secp256k1Sign(key.PrivateKey, data)
	default:
		return nil, fmt.Errorf("unrecognized key algorithm %q", key.Algorithm)
	}
}

// SetSecret stores an opaque secret value under id.
func (v *MemoryVault) SetSecret(_ context.Context, id string, value []byte) error {
	if id == "" {
		return fmt.Errorf("secret id is empty")
	}

	v.mu.Lock()
	v.secrets[id] = append([]byte(nil), value...)
	v.mu.Unlock()
	return nil
}

// GetSecret returns a copy of the secret stored under id.
func (v *MemoryVault) GetSecret(_ context.Context, id string) ([]byte, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	value, exists := v.secrets[id]
	if !exists {
		return nil, fmt.Errorf("secret %q not found", id)
	}
	return append([]byte(nil), value...), nil
}
