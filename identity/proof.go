package identity

import (
	"context"
	"fmt"

	idcrypto "github.com/pilacorp/go-identity-sdk/identity/common/crypto"
	"github.com/pilacorp/go-identity-sdk/identity/common/errs"
	"github.com/pilacorp/go-identity-sdk/identity/common/jsonmap"
	"github.com/pilacorp/go-identity-sdk/identity/document"
)

// SignatureTypeEd25519 is the only raw-proof signature type.
const SignatureTypeEd25519 = "Ed25519"

// Proof is a raw signature over caller-supplied bytes, independent of the
// JWT flows.
type Proof struct {
	Type  string `json:"type"`
	Value []byte `json:"value"`
}

// CreateProof signs arbitrary bytes with the document's registered method
// key.
func (c *Connector) CreateProof(ctx context.Context, documentID, verificationMethodID string, data []byte) (*Proof, error) {
	const op = "createProof"

	if len(data) == 0 {
		return nil, errs.NewValidation(op, "data", "must not be empty")
	}

	doc, err := c.resolveDocument(ctx, op, documentID)
	if err != nil {
		return nil, err
	}
	_, keyPair, err := c.methodSigningKey(ctx, op, doc, verificationMethodID)
	if err != nil {
		return nil, err
	}

	signature, err := keyPair.Sign(data)
	if err != nil {
		return nil, errs.NewOperation(op, err)
	}
	return &Proof{Type: SignatureTypeEd25519, Value: signature}, nil
}

// VerifyProof checks a raw signature over data against the document's
// registered method key. Only the Ed25519 signature type is recognized.
func (c *Connector) VerifyProof(ctx context.Context, documentID, verificationMethodID string, data []byte, signatureType string, signatureValue []byte) (bool, error) {
	const op = "verifyProof"

	if signatureType != SignatureTypeEd25519 {
		return false, errs.NewValidation(op, "signatureType",
			fmt.Sprintf("unrecognized signature type %q", signatureType))
	}

	doc, err := c.resolveDocument(ctx, op, documentID)
	if err != nil {
		return false, err
	}
	publicKey, err := methodPublicKey(doc, verificationMethodID)
	if err != nil {
		return false, errs.NewOperation(op, err)
	}

	return idcrypto.Ed25519Verify(publicKey, data, signatureValue), nil
}

// CreateDataIntegrityProof attaches an eddsa-rdfc-2022 DataIntegrityProof
// to a JSON-LD document, signed with the identity document's registered
// method key. The input map is returned with the proof attached.
func (c *Connector) CreateDataIntegrityProof(ctx context.Context, documentID, verificationMethodID string, payload jsonmap.JSONMap) (jsonmap.JSONMap, error) {
	const op = "createDataIntegrityProof"

	if payload == nil {
		return nil, errs.NewValidation(op, "payload", "must not be nil")
	}

	doc, err := c.resolveDocument(ctx, op, documentID)
	if err != nil {
		return nil, err
	}
	method, keyPair, err := c.methodSigningKey(ctx, op, doc, verificationMethodID)
	if err != nil {
		return nil, err
	}

	if err := payload.AddEdDSAProof(keyPair, method.ID, string(document.PurposeAssertionMethod)); err != nil {
		return nil, errs.NewOperation(op, err)
	}
	return payload, nil
}

// VerifyDataIntegrityProof checks a JSON-LD document's DataIntegrityProof
// against the key of the verification method the proof itself names. The
// method must live on the given document.
func (c *Connector) VerifyDataIntegrityProof(ctx context.Context, documentID string, payload jsonmap.JSONMap) (bool, error) {
	const op = "verifyDataIntegrityProof"

	if payload == nil {
		return false, errs.NewValidation(op, "payload", "must not be nil")
	}

	doc, err := c.resolveDocument(ctx, op, documentID)
	if err != nil {
		return false, err
	}
	proof, err := payload.Proof()
	if err != nil {
		return false, errs.NewOperation(op, err)
	}
	publicKey, err := methodPublicKey(doc, proof.VerificationMethod)
	if err != nil {
		return false, errs.NewOperation(op, err)
	}

	verified, err := payload.VerifyEdDSA(publicKey)
	if err != nil {
		return false, errs.NewOperation(op, err)
	}
	return verified, nil
}
