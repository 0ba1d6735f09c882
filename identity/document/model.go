package document

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

const (
	// Context is the base JSON-LD context of every DID document.
	Context = "https://www.w3.org/ns/did/v1"

	// MethodTypeJSONWebKey is the verification method type for JWK-carried
	// public keys.
	MethodTypeJSONWebKey = "JsonWebKey2020"
)

// JWK represents a JSON Web Key.
type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	Alg string `json:"alg,omitempty"`
	X   string `json:"x"`
	Y   string `json:"y,omitempty"`
	Kid string `json:"kid,omitempty"`
}

// NewEd25519JWK builds an OKP JWK for an Ed25519 public key.
func NewEd25519JWK(publicKey []byte) JWK {
	return JWK{
		Kty: "OKP",
		Crv: "Ed25519",
		Alg: "EdDSA",
		X:   base64.RawURLEncoding.EncodeToString(publicKey),
	}
}

// PublicKeyBytes decodes the raw public key from the x coordinate.
func (j JWK) PublicKeyBytes() ([]byte, error) {
	if j.X == "" {
		return nil, fmt.Errorf("JWK has no x coordinate")
	}
	key, err := base64.RawURLEncoding.DecodeString(j.X)
	if err != nil {
		return nil, fmt.Errorf("failed to decode JWK x coordinate: %w", err)
	}
	return key, nil
}

// ComputeKid computes the content-addressed key id: the base64url SHA-256 digest of
// the canonical JSON of the key parameters, excluding kid itself. Map
// marshaling sorts keys, which gives the canonical ordering.
func (j JWK) ComputeKid() (string, error) {
	params := map[string]string{
		"kty": j.Kty,
		"crv": j.Crv,
		"x":   j.X,
	}
	if j.Alg != "" {
		params["alg"] = j.Alg
	}
	if j.Y != "" {
		params["y"] = j.Y
	}

	canonical, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JWK parameters: %w", err)
	}

	digest := sha256.Sum256(canonical)
	return base64.RawURLEncoding.EncodeToString(digest[:]), nil
}

// VerificationMethod is a public key bound to a document for a purpose.
type VerificationMethod struct {
	ID           string `json:"id"`
	Controller   string `json:"controller"`
	Type         string `json:"type"`
	PublicKeyJwk *JWK   `json:"publicKeyJwk,omitempty"`
}

// Service is a document service entry.
type Service struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// Purpose identifies which relationship array a verification method belongs
// to.
type Purpose string

const (
	PurposeVerificationMethod   Purpose = "verificationMethod"
	PurposeAuthentication       Purpose = "authentication"
	PurposeAssertionMethod      Purpose = "assertionMethod"
	PurposeKeyAgreement         Purpose = "keyAgreement"
	PurposeCapabilityInvocation Purpose = "capabilityInvocation"
	PurposeCapabilityDelegation Purpose = "capabilityDelegation"
)

// purposeOrder is the serialization order of the relationship arrays.
var purposeOrder = []Purpose{
	PurposeVerificationMethod,
	PurposeAuthentication,
	PurposeAssertionMethod,
	PurposeKeyAgreement,
	PurposeCapabilityInvocation,
	PurposeCapabilityDelegation,
}

// ParsePurpose validates a purpose string against the six recognized
// relationship names.
func ParsePurpose(s string) (Purpose, error) {
	for _, p := range purposeOrder {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unrecognized verification method purpose %q", s)
}
