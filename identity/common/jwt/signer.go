package jwt

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Signer builds and signs compact JWTs carrying verifiable documents.
type Signer struct {
	kid    string
	method jwt.SigningMethod
}

// NewSigner creates a signer producing EdDSA tokens under the given key id.
func NewSigner(kid string) *Signer {
	return &Signer{kid: kid, method: EdDSA}
}

// NewSignerWithMethod creates a signer for a specific signing method.
func NewSignerWithMethod(kid string, method jwt.SigningMethod) *Signer {
	return &Signer{kid: kid, method: method}
}

// Sign builds a compact JWT over the given claims and signs it. The key is
// whatever the signing method accepts (an Ed25519KeyPair for EdDSA, raw
// secp256k1 private key bytes for ES256K).
func (s *Signer) Sign(claims map[string]interface{}, key interface{}) (string, error) {
	method := s.method
	jwt.RegisterSigningMethod(method.Alg(), func() jwt.SigningMethod {
		return method
	})

	token := jwt.NewWithClaims(method, jwt.MapClaims(claims))
	token.Header["typ"] = "JWT"
	if s.kid != "" {
		token.Header["kid"] = s.kid
	}

	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// SigningInput returns the unsigned header.payload segment for the claims,
// for callers that sign externally.
func (s *Signer) SigningInput(claims map[string]interface{}) ([]byte, error) {
	token := jwt.NewWithClaims(s.method, jwt.MapClaims(claims))
	token.Header["typ"] = "JWT"
	if s.kid != "" {
		token.Header["kid"] = s.kid
	}

	signingInput, err := token.SigningString()
	if err != nil {
		return nil, fmt.Errorf("failed to get signing input: %w", err)
	}
	return []byte(signingInput), nil
}
