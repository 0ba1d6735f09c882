package vault

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	idcrypto "github.com/pilacorp/go-identity-sdk/identity/common/crypto"
)

func TestCreateAndGetKey(t *testing.T) {
	ctx := context.Background()
	v := NewMemoryVault()

	tests := []struct {
		name      string
		algorithm KeyAlgorithm
		pubLen    int
	}{
		{
			name:      "Ed25519",
			algorithm: AlgEd25519,
			pubLen:    32,
		},
		{
			name:      "Secp256k1",
			algorithm: AlgSecp256k1,
			pubLen:    33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := "key-" + tt.name
			pub, err := v.CreateKey(ctx, id, tt.algorithm)
			require.NoError(t, err)
			assert.Len(t, pub, tt.pubLen)

			key, err := v.GetKey(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, tt.algorithm, key.Algorithm)
			assert.Equal(t, pub, key.PublicKey)
			assert.Len(t, key.PrivateKey, 32)

			// Creating under an existing id fails.
			_, err = v.CreateKey(ctx, id, tt.algorithm)
			assert.Error(t, err)
		})
	}

	_, err := v.CreateKey(ctx, "bad-alg", KeyAlgorithm("RSA"))
	assert.Error(t, err)

	_, err = v.GetKey(ctx, "missing")
	assert.Error(t, err)
}

func TestRenameKey(t *testing.T) {
	ctx := context.Background()
	v := NewMemoryVault()

	pub, err := v.CreateKey(ctx, "temp-id", AlgEd25519)
	require.NoError(t, err)

	require.NoError(t, v.RenameKey(ctx, "temp-id", "did:mem:abc#key-1"))

	_, err = v.GetKey(ctx, "temp-id")
	assert.Error(t, err, "old id must be gone after rename")

	key, err := v.GetKey(ctx, "did:mem:abc#key-1")
	require.NoError(t, err)
	assert.Equal(t, pub, key.PublicKey)

	// Rename replaces any key already stored under the new id.
	_, err = v.CreateKey(ctx, "temp-id-2", AlgEd25519)
	require.NoError(t, err)
	require.NoError(t, v.RenameKey(ctx, "temp-id-2", "did:mem:abc#key-1"))

	replaced, err := v.GetKey(ctx, "did:mem:abc#key-1")
	require.NoError(t, err)
	assert.NotEqual(t, pub, replaced.PublicKey)

	assert.Error(t, v.RenameKey(ctx, "missing", "anywhere"))
}

func TestVaultSign(t *testing.T) {
	ctx := context.Background()
	v := NewMemoryVault()
	data := []byte("sign me")

	edPub, err := v.CreateKey(ctx, "ed", AlgEd25519)
	require.NoError(t, err)
	sig, err := v.Sign(ctx, "ed", data)
	require.NoError(t, err)
	assert.True(t, idcrypto.Ed25519Verify(edPub, data, sig))

	secpPub, err := v.CreateKey(ctx, "secp", AlgSecp256k1)
	require.NoError(t, err)
	sig, err = v.Sign(ctx, "secp", data)
	require.NoError(t, err)
	assert.True(t, idcrypto.Secp256k1Verify(secpPub, data, sig))

	_, err = v.Sign(ctx, "missing", data)
	assert.Error(t, err)
}

func TestSecrets(t *testing.T) {
	ctx := context.Background()
	v := NewMemoryVault()

	require.NoError(t, v.SetSecret(ctx, "mnemonic", []byte("abandon ability")))

	value, err := v.GetSecret(ctx, "mnemonic")
	require.NoError(t, err)
	assert.Equal(t, []byte("abandon ability"), value)

	// Stored value is a copy, not an alias.
	value[0] = 'x'
	again, err := v.GetSecret(ctx, "mnemonic")
	require.NoError(t, err)
	assert.Equal(t, []byte("abandon ability"), again)

	_, err = v.GetSecret(ctx, "missing")
	assert.Error(t, err)

	assert.Error(t, v.SetSecret(ctx, "", []byte("v")))
}
