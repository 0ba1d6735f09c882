package jwt

import (
	"crypto/ed25519"
	"fmt"

	idcrypto "github.com/pilacorp/go-identity-sdk/identity/common/crypto"
)

// SigningMethodEdDSA implements Ed25519 JWS signing (alg "EdDSA").
type SigningMethodEdDSA struct{}

// Alg returns the algorithm name.
func (m *SigningMethodEdDSA) Alg() string {
	return "EdDSA"
}

// Sign signs the signing string. The key may be an ed25519.PrivateKey or an
// Ed25519KeyPair, whose expanded signing key is derived explicitly.
func (m *SigningMethodEdDSA) Sign(signingString string, key interface{}) ([]byte, error) {
	switch k := key.(type) {
	case ed25519.PrivateKey:
		if len(k) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("ed25519 private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(k))
		}
		return ed25519.Sign(k, []byte(signingString)), nil
	case idcrypto.Ed25519KeyPair:
		priv, err := k.ToSigningKey()
		if err != nil {
			return nil, fmt.Errorf("invalid signing key: %w", err)
		}
		return ed25519.Sign(priv, []byte(signingString)), nil
	default:
		return nil, fmt.Errorf("invalid key type %T for EdDSA", key)
	}
}

// Verify verifies a signature against an Ed25519 public key given as
// ed25519.PublicKey or raw bytes.
func (m *SigningMethodEdDSA) Verify(signingString string, signature []byte, key interface{}) error {
	var pub []byte
	switch k := key.(type) {
	case ed25519.PublicKey:
		pub = k
	case []byte:
		pub = k
	default:
		return fmt.Errorf("invalid key type %T for EdDSA", key)
	}

	if len(pub) != ed25519.PublicKeySize {
		return fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(pub))
	}
	if !idcrypto.Ed25519Verify(pub, []byte(signingString), signature) {
		return ErrSignatureInvalid
	}
	return nil
}

// EdDSA is the EdDSA signing method instance.
var EdDSA = &SigningMethodEdDSA{}
