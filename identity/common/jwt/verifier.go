package jwt

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedToken marks a token that is not structurally a compact
	// JWT (wrong segment count, bad base64 or JSON). Distinct from a
	// signature failure so callers can tell "not a JWT" from "tampered".
	ErrMalformedToken = errors.New("malformed JWT")

	// ErrSignatureInvalid marks a structurally valid token whose signature
	// does not verify.
	ErrSignatureInvalid = errors.New("JWT signature verification failed")
)

// Token is a decoded compact JWT.
type Token struct {
	Header       map[string]interface{}
	Claims       map[string]interface{}
	Signature    []byte
	SigningInput string
}

// Alg returns the token's alg header, or "" when absent.
func (t *Token) Alg() string {
	alg, _ := t.Header["alg"].(string)
	return alg
}

// Kid returns the token's kid header, or "" when absent.
func (t *Token) Kid() string {
	kid, _ := t.Header["kid"].(string)
	return kid
}

// Decode splits and decodes a compact JWT without verifying its signature.
// Structural problems are reported as ErrMalformedToken.
func Decode(tokenString string) (*Token, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}

	headerBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid header encoding: %v", ErrMalformedToken, err)
	}
	var header map[string]interface{}
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("%w: invalid header JSON: %v", ErrMalformedToken, err)
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid payload encoding: %v", ErrMalformedToken, err)
	}
	var claims map[string]interface{}
	if err := json.Unmarshal(payloadBytes, &claims); err != nil {
		return nil, fmt.Errorf("%w: invalid payload JSON: %v", ErrMalformedToken, err)
	}

	signature, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid signature encoding: %v", ErrMalformedToken, err)
	}

	return &Token{
		Header:       header,
		Claims:       claims,
		Signature:    signature,
		SigningInput: parts[0] + "." + parts[1],
	}, nil
}

// VerifySignature verifies the token's signature against the public key
// bytes for the token's alg. A mismatch returns ErrSignatureInvalid.
func VerifySignature(t *Token, publicKey []byte) error {
	switch t.Alg() {
	case EdDSA.Alg():
		return EdDSA.Verify(t.SigningInput, t.Signature, publicKey)
	case ES256K.Alg():
		return ES256K.Verify(t.SigningInput, t.Signature, publicKey)
	default:
		return fmt.Errorf("unsupported JWT algorithm %q", t.Alg())
	}
}
