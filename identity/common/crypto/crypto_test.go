package crypto

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEd25519KeyPairToSigningKey(t *testing.T) {
	kp, err := GenerateEd25519()
	require.NoError(t, err)

	tests := []struct {
		name        string
		pair        Ed25519KeyPair
		expectError bool
	}{
		{
			name: "seed with matching public key",
			pair: kp,
		},
		{
			name: "seed without public key",
			pair: Ed25519KeyPair{Seed: kp.Seed},
		},
		{
			name: "expanded private key",
			pair: func() Ed25519KeyPair {
				priv := ed25519.NewKeyFromSeed(kp.Seed)
				return Ed25519KeyPair{Seed: priv, PublicKey: kp.PublicKey}
			}(),
		},
		{
			name:        "wrong length",
			pair:        Ed25519KeyPair{Seed: kp.Seed[:16]},
			expectError: true,
		},
		{
			name: "mismatched public key",
			pair: func() Ed25519KeyPair {
				other, err := GenerateEd25519()
				require.NoError(t, err)
				return Ed25519KeyPair{Seed: kp.Seed, PublicKey: other.PublicKey}
			}(),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priv, err := tt.pair.ToSigningKey()
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, []byte(priv), ed25519.PrivateKeySize)
		})
	}
}

func TestEd25519SignVerify(t *testing.T) {
	kp, err := GenerateEd25519()
	require.NoError(t, err)

	data := []byte("payload to sign")
	sig, err := kp.Sign(data)
	require.NoError(t, err)
	require.Len(t, sig, ed25519.SignatureSize)

	assert.True(t, Ed25519Verify(kp.PublicKey, data, sig))

	// Any altered byte breaks verification.
	tampered := append([]byte(nil), data...)
	tampered[0] ^= 0x01
	assert.False(t, Ed25519Verify(kp.PublicKey, tampered, sig))

	badSig := append([]byte(nil), sig...)
	badSig[10] ^= 0x01
	assert.False(t, Ed25519Verify(kp.PublicKey, data, badSig))

	other, err := GenerateEd25519()
	require.NoError(t, err)
	assert.False(t, Ed25519Verify(other.PublicKey, data, sig))
}

func TestVerifyKeyPair(t *testing.T) {
	kp, err := GenerateEd25519()
	require.NoError(t, err)

	ok, err := VerifyKeyPair(kp.Seed, kp.PublicKey)
	require.NoError(t, err)
	assert.True(t, ok)

	other, err := GenerateEd25519()
	require.NoError(t, err)
	ok, err = VerifyKeyPair(kp.Seed, other.PublicKey)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyKeyPair([]byte("short"), kp.PublicKey)
	assert.Error(t, err)
}

func TestSecp256k1SignVerify(t *testing.T) {
	priv, pub, err := GenerateSecp256k1()
	require.NoError(t, err)
	require.Len(t, priv, 32)
	require.Len(t, pub, 33)

	data := []byte("payload to sign")
	sig, err := Secp256k1Sign(priv, data)
	require.NoError(t, err)
	require.Len(t, sig, 64)

	assert.True(t, Secp256k1Verify(pub, data, sig))

	tampered := append([]byte(nil), data...)
	tampered[3] ^= 0xff
	assert.False(t, Secp256k1Verify(pub, tampered, sig))

	assert.False(t, Secp256k1Verify(pub, data, sig[:32]))
}
