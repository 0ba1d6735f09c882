package crypto

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// GenerateSecp256k1 creates a fresh secp256k1 keypair, returning the 32-byte
// private key and the 33-byte compressed public key.
func GenerateSecp256k1() (privateKey, publicKey []byte, err error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate secp256k1 key: %w", err)
	}
	return priv.Serialize(), priv.PubKey().SerializeCompressed(), nil
}

// Secp256k1Sign signs the SHA-256 digest of data, returning the 64-byte R||S
// signature without the recovery id.
func Secp256k1Sign(privateKey, data []byte) ([]byte, error) {
	priv, err := ethcrypto.ToECDSA(privateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid secp256k1 private key: %w", err)
	}

	hash := sha256.Sum256(data)
	sig, err := ethcrypto.Sign(hash[:], priv)
	if err != nil {
		return nil, fmt.Errorf("secp256k1 signing failed: %w", err)
	}
	return sig[:64], nil
}

// Secp256k1Verify reports whether signature (64-byte R||S) is valid for data
// under the compressed or uncompressed public key.
func Secp256k1Verify(publicKey, data, signature []byte) bool {
	if len(signature) != 64 {
		return false
	}
	hash := sha256.Sum256(data)
	return ethcrypto.VerifySignature(publicKey, hash[:], signature)
}
