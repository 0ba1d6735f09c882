package jwt

import (
	"fmt"

	idcrypto "github.com/pilacorp/go-identity-sdk/identity/common/crypto"
)

// SigningMethodES256K implements secp256k1 signing (alg "ES256K") over raw
// key bytes.
type SigningMethodES256K struct{}

// Alg returns the algorithm name.
func (m *SigningMethodES256K) Alg() string {
	return "ES256K"
}

// Sign signs a signing string with a 32-byte secp256k1 private key.
func (m *SigningMethodES256K) Sign(signingString string, key interface{}) ([]byte, error) {
	priv, ok := key.([]byte)
	if !ok {
		return nil, fmt.Errorf("invalid key type %T for ES256K", key)
	}
	return idcrypto.Secp256k1Sign(priv, []byte(signingString))
}

// Verify verifies a 64-byte R||S signature against a compressed or
// uncompressed secp256k1 public key.
func (m *SigningMethodES256K) Verify(signingString string, signature []byte, key interface{}) error {
	pub, ok := key.([]byte)
	if !ok {
		return fmt.Errorf("invalid key type %T for ES256K", key)
	}
	if len(signature) != 64 {
		return fmt.Errorf("ES256K signature must be 64 bytes, got %d", len(signature))
	}
	if !idcrypto.Secp256k1Verify(pub, []byte(signingString), signature) {
		return ErrSignatureInvalid
	}
	return nil
}

// ES256K is the ES256K signing method instance.
var ES256K = &SigningMethodES256K{}
