package jwt

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	idcrypto "github.com/pilacorp/go-identity-sdk/identity/common/crypto"
)

func TestSignAndVerifyEdDSA(t *testing.T) {
	kp, err := idcrypto.GenerateEd25519()
	require.NoError(t, err)

	signer := NewSigner("did:mem:issuer#key-1")
	claims := map[string]interface{}{
		"iss": "did:mem:issuer",
		"jti": "urn:uuid:1234",
		"vc": map[string]interface{}{
			"type": "VerifiableCredential",
		},
	}

	tokenString, err := signer.Sign(claims, kp)
	require.NoError(t, err)
	require.Equal(t, 3, len(strings.Split(tokenString, ".")))

	token, err := Decode(tokenString)
	require.NoError(t, err)

	assert.Equal(t, "EdDSA", token.Alg())
	assert.Equal(t, "did:mem:issuer#key-1", token.Kid())
	assert.Equal(t, "did:mem:issuer", token.Claims["iss"])

	require.NoError(t, VerifySignature(token, kp.PublicKey))

	vc, err := DocumentClaim(token, "vc")
	require.NoError(t, err)
	assert.Equal(t, "VerifiableCredential", vc["type"])
}

func TestDecodeMalformedVersusTampered(t *testing.T) {
	kp, err := idcrypto.GenerateEd25519()
	require.NoError(t, err)

	signer := NewSigner("did:mem:issuer#key-1")
	tokenString, err := signer.Sign(map[string]interface{}{"iss": "did:mem:issuer"}, kp)
	require.NoError(t, err)

	malformed := []struct {
		name  string
		token string
	}{
		{
			name:  "two segments",
			token: "aaaa.bbbb",
		},
		{
			name:  "four segments",
			token: "aaaa.bbbb.cccc.dddd",
		},
		{
			name:  "not base64",
			token: "!!.!!.!!",
		},
		{
			name:  "not JSON payload",
			token: "eyJhbGciOiJFZERTQSJ9.bm90anNvbg.c2ln",
		},
	}

	for _, tt := range malformed {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedToken), "expected ErrMalformedToken, got %v", err)
		})
	}

	// A structurally valid but tampered token decodes fine and fails
	// verification with a distinct error.
	parts := strings.Split(tokenString, ".")
	tampered := parts[0] + "." + parts[1] + "." + parts[2][:len(parts[2])-2] + "xx"
	token, err := Decode(tampered)
	require.NoError(t, err)

	err = VerifySignature(token, kp.PublicKey)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSignatureInvalid))
	assert.False(t, errors.Is(err, ErrMalformedToken))
}

func TestVerifySignatureWrongKey(t *testing.T) {
	kp, err := idcrypto.GenerateEd25519()
	require.NoError(t, err)
	other, err := idcrypto.GenerateEd25519()
	require.NoError(t, err)

	signer := NewSigner("kid")
	tokenString, err := signer.Sign(map[string]interface{}{"iss": "x"}, kp)
	require.NoError(t, err)

	token, err := Decode(tokenString)
	require.NoError(t, err)

	assert.ErrorIs(t, VerifySignature(token, other.PublicKey), ErrSignatureInvalid)
}

func TestSignAndVerifyES256K(t *testing.T) {
	priv, pub, err := idcrypto.GenerateSecp256k1()
	require.NoError(t, err)

	signer := NewSignerWithMethod("did:mem:issuer#key-2", ES256K)
	tokenString, err := signer.Sign(map[string]interface{}{"iss": "did:mem:issuer"}, priv)
	require.NoError(t, err)

	token, err := Decode(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "ES256K", token.Alg())

	require.NoError(t, VerifySignature(token, pub))

	token.Signature[0] ^= 0x01
	assert.ErrorIs(t, VerifySignature(token, pub), ErrSignatureInvalid)
}

func TestSigningInputMatchesSignedToken(t *testing.T) {
	kp, err := idcrypto.GenerateEd25519()
	require.NoError(t, err)

	signer := NewSigner("kid-1")
	claims := map[string]interface{}{"iss": "did:mem:issuer"}

	input, err := signer.SigningInput(claims)
	require.NoError(t, err)

	tokenString, err := signer.Sign(claims, kp)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(tokenString, string(input)+"."))
}

func TestVerifySignatureUnsupportedAlg(t *testing.T) {
	token := &Token{
		Header:       map[string]interface{}{"alg": "HS256"},
		SigningInput: "a.b",
	}
	err := VerifySignature(token, []byte("key"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}
