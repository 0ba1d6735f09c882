// Package crypto holds the key-material primitives used by the identity
// connectors: Ed25519 keypairs with an explicit expanded-signing-key
// conversion, and secp256k1 helpers for the ES256K path.
package crypto

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
)

// Ed25519KeyPair holds the raw seed and public key of an Ed25519 key.
//
// Ed25519 signing needs the expanded 64-byte secret key (seed followed by
// the public key); a stored 32-byte seed alone is insufficient.
// ToSigningKey names that convention instead of concatenating bytes at each
// call site.
type Ed25519KeyPair struct {
	Seed      []byte
	PublicKey []byte
}

// GenerateEd25519 creates a fresh Ed25519 keypair.
func GenerateEd25519() (Ed25519KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return Ed25519KeyPair{}, fmt.Errorf("failed to generate Ed25519 key: %w", err)
	}
	return Ed25519KeyPair{
		Seed:      priv.Seed(),
		PublicKey: []byte(pub),
	}, nil
}

// ToSigningKey expands the keypair into the 64-byte private key required for
// signing. Seed may be the 32-byte seed or an already-expanded 64-byte
// private key; when PublicKey is set it must match the derived public part.
func (k Ed25519KeyPair) ToSigningKey() (ed25519.PrivateKey, error) {
	var priv ed25519.PrivateKey
	switch len(k.Seed) {
	case ed25519.SeedSize:
		priv = ed25519.NewKeyFromSeed(k.Seed)
	case ed25519.PrivateKeySize:
		priv = ed25519.PrivateKey(k.Seed)
	default:
		return nil, fmt.Errorf("private key must be %d or %d bytes, got %d",
			ed25519.SeedSize, ed25519.PrivateKeySize, len(k.Seed))
	}

	if len(k.PublicKey) > 0 && !bytes.Equal(priv[ed25519.SeedSize:], k.PublicKey) {
		return nil, fmt.Errorf("public key does not match private key")
	}
	return priv, nil
}

// Sign signs data with the expanded signing key.
func (k Ed25519KeyPair) Sign(data []byte) ([]byte, error) {
	priv, err := k.ToSigningKey()
	if err != nil {
		return nil, err
	}
	return ed25519.Sign(priv, data), nil
}

// Ed25519Verify reports whether signature is a valid Ed25519 signature of
// data under publicKey.
func Ed25519Verify(publicKey, data, signature []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), data, signature)
}

// VerifyKeyPair reports whether seed and publicKey belong to the same
// Ed25519 key.
func VerifyKeyPair(seed, publicKey []byte) (bool, error) {
	if len(seed) != ed25519.SeedSize {
		return false, fmt.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	if len(publicKey) != ed25519.PublicKeySize {
		return false, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(publicKey))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return bytes.Equal(priv[ed25519.SeedSize:], publicKey), nil
}
