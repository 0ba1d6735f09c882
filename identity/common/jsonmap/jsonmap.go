// Package jsonmap models JSON documents as maps and attaches or verifies
// DataIntegrityProof entries over their canonicalized form.
package jsonmap

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pilacorp/go-identity-sdk/identity/common/crypto"
	"github.com/pilacorp/go-identity-sdk/identity/common/dto"
	"github.com/pilacorp/go-identity-sdk/identity/common/processor"
	"github.com/pilacorp/go-identity-sdk/identity/common/util"
)

// CryptosuiteEdDSA is the cryptosuite identifier for Ed25519 data-integrity
// proofs over URDNA2015-canonicalized documents.
const CryptosuiteEdDSA = "eddsa-rdfc-2022"

// JSONMap represents a JSON object as a map.
type JSONMap map[string]interface{}

// ToJSON serializes the JSONMap to JSON.
func (m JSONMap) ToJSON() ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("JSONMap is nil")
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSONMap: %w", err)
	}
	return data, nil
}

// Canonicalize canonicalizes the document for signing or verification,
// excluding the proof field, and returns the SHA-256 digest of the
// normalized form.
func (m JSONMap) Canonicalize() ([]byte, error) {
	_, unsigned := util.SplitJSONObj(map[string]interface{}(m), "proof")

	canonical, err := processor.CanonicalizeDocument(unsigned)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize document: %w", err)
	}

	return processor.ComputeDigest(canonical), nil
}

// AddEdDSAProof signs the canonicalized document with the given keypair and
// attaches an eddsa-rdfc-2022 DataIntegrityProof.
func (m JSONMap) AddEdDSAProof(key crypto.Ed25519KeyPair, verificationMethod, proofPurpose string) error {
	if m == nil {
		return fmt.Errorf("JSONMap is nil")
	}
	if verificationMethod == "" {
		return fmt.Errorf("verification method is required")
	}
	if proofPurpose == "" {
		return fmt.Errorf("proof purpose is required")
	}

	proof := &dto.Proof{
		Type:               "DataIntegrityProof",
		Created:            time.Now().UTC().Format(time.RFC3339),
		VerificationMethod: verificationMethod,
		ProofPurpose:       proofPurpose,
		Cryptosuite:        CryptosuiteEdDSA,
	}

	signData, err := m.Canonicalize()
	if err != nil {
		return err
	}

	signature, err := key.Sign(signData)
	if err != nil {
		return fmt.Errorf("failed to sign proof: %w", err)
	}
	proof.ProofValue = hex.EncodeToString(signature)
	m["proof"] = util.SerializeProofs([]dto.Proof{*proof})
	return nil
}

// AddCustomProof attaches an externally produced proof to the document.
// When the proof carries raw Signature bytes and no ProofValue, the
// signature is hex-encoded into ProofValue.
func (m JSONMap) AddCustomProof(proof *dto.Proof) error {
	if m == nil {
		return fmt.Errorf("JSONMap is nil")
	}
	if proof == nil {
		return fmt.Errorf("proof is nil")
	}
	if proof.ProofValue == "" && len(proof.Signature) > 0 {
		proof.ProofValue = hex.EncodeToString(proof.Signature)
	}
	m["proof"] = util.SerializeProofs([]dto.Proof{*proof})
	return nil
}

// Proof extracts the document's first proof entry.
func (m JSONMap) Proof() (dto.Proof, error) {
	raw, exists := m["proof"]
	if !exists {
		return dto.Proof{}, fmt.Errorf("document has no proof")
	}

	if list, ok := raw.([]interface{}); ok {
		if len(list) == 0 {
			return dto.Proof{}, fmt.Errorf("document has an empty proof list")
		}
		raw = list[0]
	}

	proofMap, ok := raw.(map[string]interface{})
	if !ok {
		return dto.Proof{}, fmt.Errorf("invalid proof format: expected map, got %T", raw)
	}
	return util.ParseProof(proofMap)
}

// VerifyEdDSA verifies the document's eddsa-rdfc-2022 proof against the
// given Ed25519 public key.
func (m JSONMap) VerifyEdDSA(publicKey []byte) (bool, error) {
	proof, err := m.Proof()
	if err != nil {
		return false, err
	}
	if proof.Cryptosuite != "" && proof.Cryptosuite != CryptosuiteEdDSA {
		return false, fmt.Errorf("unsupported cryptosuite %q", proof.Cryptosuite)
	}

	signature, err := hex.DecodeString(proof.ProofValue)
	if err != nil {
		return false, fmt.Errorf("failed to decode proof value: %w", err)
	}

	digest, err := m.Canonicalize()
	if err != nil {
		return false, err
	}

	return crypto.Ed25519Verify(publicKey, digest, signature), nil
}
