package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	idcrypto "github.com/pilacorp/go-identity-sdk/identity/common/crypto"
	"github.com/pilacorp/go-identity-sdk/identity/common/errs"
	"github.com/pilacorp/go-identity-sdk/identity/common/jwt"
	"github.com/pilacorp/go-identity-sdk/identity/common/revocation"
	"github.com/pilacorp/go-identity-sdk/identity/common/schema"
	"github.com/pilacorp/go-identity-sdk/identity/common/util"
	"github.com/pilacorp/go-identity-sdk/identity/document"
)

const (
	// ContextCredentials is the base JSON-LD context of credentials and
	// presentations.
	ContextCredentials = "https://www.w3.org/2018/credentials/v1"

	// TypeVerifiableCredential is the mandatory first credential type.
	TypeVerifiableCredential = "VerifiableCredential"
)

var (
	// ErrMethodMissing marks a verification method id that does not resolve
	// on the referenced document.
	ErrMethodMissing = errors.New("verification method not found on document")

	// ErrPublicKeyJwkMissing marks a verification method without a usable
	// public JWK.
	ErrPublicKeyJwkMissing = errors.New("verification method carries no publicKeyJwk")
)

// CredentialStatus points a credential at its issuer's revocation service.
// The bitmap index travels as a stringified integer.
type CredentialStatus struct {
	ID                    string `json:"id"`
	Type                  string `json:"type"`
	RevocationBitmapIndex string `json:"revocationBitmapIndex"`
}

// VerifiableCredential is the issued credential object. The transport form
// is the compact JWT; this object is what callers inspect.
type VerifiableCredential struct {
	Context           []string          `json:"@context"`
	ID                string            `json:"id,omitempty"`
	Type              []string          `json:"type"`
	CredentialSubject interface{}       `json:"credentialSubject"`
	CredentialStatus  *CredentialStatus `json:"credentialStatus,omitempty"`
	Issuer            string            `json:"issuer"`
	IssuanceDate      string            `json:"issuanceDate"`
}

// CredentialResult is the outcome of issuing a credential: the full object
// and its signed JWT transport form.
type CredentialResult struct {
	VerifiableCredential *VerifiableCredential `json:"verifiableCredential"`
	JWT                  string                `json:"jwt"`
}

// CredentialCheck is the outcome of verifying a credential. Revoked is a
// normal result, not an error; the credential body is omitted when revoked.
type CredentialCheck struct {
	Revoked              bool                  `json:"revoked"`
	VerifiableCredential *VerifiableCredential `json:"verifiableCredential,omitempty"`
}

// CredentialOpt configures credential issuance.
type CredentialOpt func(*credentialOptions)

type credentialOptions struct {
	id              string
	types           []string
	revocationIndex int
	revocable       bool
}

// WithCredentialID sets an explicit credential id instead of a generated
// urn:uuid.
func WithCredentialID(id string) CredentialOpt {
	return func(o *credentialOptions) {
		o.id = id
	}
}

// WithCredentialTypes appends type names after the mandatory
// VerifiableCredential entry.
func WithCredentialTypes(types ...string) CredentialOpt {
	return func(o *credentialOptions) {
		o.types = append(o.types, types...)
	}
}

// WithRevocationIndex makes the credential revocable at the given bitmap
// index of the issuer's revocation service.
func WithRevocationIndex(index int) CredentialOpt {
	return func(o *credentialOptions) {
		o.revocationIndex = index
		o.revocable = true
	}
}

// CreateVerifiableCredential issues a credential about subject, signed with
// the issuer's verification method. Subject is a single JSON object or an
// array of them; a subject id, when present, becomes the JWT sub claim (the
// first subject's id in the array case). The credential is signed at
// creation and immutable afterwards; revocation state lives on the issuer
// document, not in the credential.
func (c *Connector) CreateVerifiableCredential(ctx context.Context, issuerDocumentID, verificationMethodID string, subject interface{}, opts ...CredentialOpt) (*CredentialResult, error) {
	const op = "createVerifiableCredential"

	if subject == nil {
		return nil, errs.NewValidation(op, "subject", "must not be nil")
	}

	options := &credentialOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.revocable && (options.revocationIndex < 0 || options.revocationIndex >= c.bitmapSize) {
		return nil, errs.NewValidation(op, "revocationIndex",
			fmt.Sprintf("index %d out of range [0, %d)", options.revocationIndex, c.bitmapSize))
	}

	doc, err := c.resolveDocument(ctx, op, issuerDocumentID)
	if err != nil {
		return nil, err
	}

	method, keyPair, err := c.methodSigningKey(ctx, op, doc, verificationMethodID)
	if err != nil {
		return nil, err
	}

	credentialID := options.id
	if credentialID == "" {
		credentialID = "urn:uuid:" + uuid.NewString()
	}

	credential := &VerifiableCredential{
		Context:           []string{ContextCredentials},
		ID:                credentialID,
		Type:              append([]string{TypeVerifiableCredential}, options.types...),
		CredentialSubject: subject,
		Issuer:            doc.ID,
		IssuanceDate:      c.now().UTC().Format(time.RFC3339),
	}
	if options.revocable {
		credential.CredentialStatus = &CredentialStatus{
			ID:                    doc.ID + "#" + revocation.ServiceFragment,
			Type:                  revocation.ServiceType,
			RevocationBitmapIndex: strconv.Itoa(options.revocationIndex),
		}
	}

	claims := map[string]interface{}{
		"iss": doc.ID,
		"nbf": c.now().UTC().Unix(),
		"jti": credentialID,
		"vc":  strippedCredentialClaim(credential),
	}
	if sub := subjectID(subject); sub != "" {
		claims["sub"] = sub
	}

	token, err := jwt.NewSigner(method.ID).Sign(claims, keyPair)
	if err != nil {
		return nil, errs.NewOperation(op, err)
	}

	return &CredentialResult{VerifiableCredential: credential, JWT: token}, nil
}

// CheckVerifiableCredential verifies a credential JWT against its issuer's
// current document: signature first, then the live revocation bitmap. A
// revocation hit yields {Revoked: true} with the credential body omitted;
// signature failure is a hard error, never reported as revoked.
func (c *Connector) CheckVerifiableCredential(ctx context.Context, credentialJWT string) (*CredentialCheck, error) {
	check, _, err := c.checkCredentialToken(ctx, "checkVerifiableCredential", credentialJWT)
	return check, err
}

// checkCredentialToken does the work of CheckVerifiableCredential and also
// returns the issuer document, for presentation checking to aggregate.
func (c *Connector) checkCredentialToken(ctx context.Context, op, credentialJWT string) (*CredentialCheck, *document.Document, error) {
	token, err := jwt.Decode(credentialJWT)
	if err != nil {
		return nil, nil, errs.NewOperation(op, err)
	}

	issuer, ok := token.Claims["iss"].(string)
	if !ok || issuer == "" {
		return nil, nil, errs.NewOperation(op, fmt.Errorf("%w: missing iss claim", jwt.ErrMalformedToken))
	}
	doc, err := c.resolveDocument(ctx, op, issuer)
	if err != nil {
		return nil, nil, err
	}

	publicKey, err := methodPublicKey(doc, token.Kid())
	if err != nil {
		return nil, nil, errs.NewOperation(op, err)
	}
	if err := jwt.VerifySignature(token, publicKey); err != nil {
		return nil, nil, errs.NewOperation(op, err)
	}

	credentialMap, err := credentialClaimToMap(token)
	if err != nil {
		return nil, nil, errs.NewOperation(op, err)
	}
	if c.validateSchema {
		if err := schema.ValidateCredential(credentialMap); err != nil {
			return nil, nil, errs.NewOperation(op, err)
		}
	}

	credential, err := parseCredential(credentialMap)
	if err != nil {
		return nil, nil, errs.NewOperation(op, err)
	}

	if credential.CredentialStatus != nil {
		revoked, err := c.credentialRevoked(doc, credential.CredentialStatus)
		if err != nil {
			return nil, nil, errs.NewOperation(op, err)
		}
		if revoked {
			return &CredentialCheck{Revoked: true}, doc, nil
		}
	}
	return &CredentialCheck{Revoked: false, VerifiableCredential: credential}, doc, nil
}

// methodSigningKey resolves the verification method on doc and rebuilds its
// Ed25519 keypair from the vault's private part plus the document's recorded
// public key.
func (c *Connector) methodSigningKey(ctx context.Context, op string, doc *document.Document, verificationMethodID string) (document.VerificationMethod, idcrypto.Ed25519KeyPair, error) {
	method, _, err := doc.Method(verificationMethodID)
	if err != nil {
		return document.VerificationMethod{}, idcrypto.Ed25519KeyPair{},
			errs.NewOperation(op, fmt.Errorf("%w: %q", ErrMethodMissing, verificationMethodID))
	}
	if method.PublicKeyJwk == nil {
		return document.VerificationMethod{}, idcrypto.Ed25519KeyPair{},
			errs.NewOperation(op, fmt.Errorf("%w: %q", ErrPublicKeyJwkMissing, method.ID))
	}

	publicKey, err := method.PublicKeyJwk.PublicKeyBytes()
	if err != nil {
		return document.VerificationMethod{}, idcrypto.Ed25519KeyPair{}, errs.NewOperation(op, err)
	}
	key, err := c.vault.GetKey(ctx, method.ID)
	if err != nil {
		return document.VerificationMethod{}, idcrypto.Ed25519KeyPair{},
			errs.NewOperation(op, fmt.Errorf("failed to fetch key %q: %w", method.ID, err))
	}

	return method, idcrypto.Ed25519KeyPair{Seed: key.PrivateKey, PublicKey: publicKey}, nil
}

// methodPublicKey resolves a verification method by id and returns its raw
// public key bytes.
func methodPublicKey(doc *document.Document, verificationMethodID string) ([]byte, error) {
	method, _, err := doc.Method(verificationMethodID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMethodMissing, verificationMethodID)
	}
	if method.PublicKeyJwk == nil {
		return nil, fmt.Errorf("%w: %q", ErrPublicKeyJwkMissing, method.ID)
	}
	return method.PublicKeyJwk.PublicKeyBytes()
}

// credentialRevoked looks the status index up in the issuer's live bitmap.
func (c *Connector) credentialRevoked(issuerDoc *document.Document, status *CredentialStatus) (bool, error) {
	if status.Type != revocation.ServiceType {
		return false, fmt.Errorf("unsupported credentialStatus type %q", status.Type)
	}
	index, err := strconv.Atoi(status.RevocationBitmapIndex)
	if err != nil {
		return false, fmt.Errorf("invalid revocationBitmapIndex %q: %w", status.RevocationBitmapIndex, err)
	}

	bitmap, err := c.documentBitmap(issuerDoc)
	if err != nil {
		return false, err
	}
	return bitmap.Get(index)
}

// strippedCredentialClaim builds the vc JWT claim: context, type, subject
// and status only. Id, issuer and issuance date travel as jti/iss/nbf and
// are reconstructed on decode.
func strippedCredentialClaim(credential *VerifiableCredential) util.JSONMap {
	claim := util.JSONMap{
		"@context":          credential.Context,
		"type":              util.SerializeTypes(credential.Type),
		"credentialSubject": credential.CredentialSubject,
	}
	if credential.CredentialStatus != nil {
		claim["credentialStatus"] = util.JSONMap{
			"id":                    credential.CredentialStatus.ID,
			"type":                  credential.CredentialStatus.Type,
			"revocationBitmapIndex": credential.CredentialStatus.RevocationBitmapIndex,
		}
	}
	return claim
}

// credentialClaimToMap rebuilds the full credential JSON from the token's
// vc claim plus the lifted standard claims.
func credentialClaimToMap(token *jwt.Token) (util.JSONMap, error) {
	claim, err := jwt.DocumentClaim(token, "vc")
	if err != nil {
		return nil, err
	}

	credential := util.ShallowCopyObj(claim)
	if jti, ok := token.Claims["jti"].(string); ok && jti != "" {
		credential["id"] = jti
	}
	issuer, _ := token.Claims["iss"].(string)
	credential["issuer"] = issuer
	if nbf, ok := token.Claims["nbf"].(float64); ok {
		credential["issuanceDate"] = time.Unix(int64(nbf), 0).UTC().Format(time.RFC3339)
	}
	return credential, nil
}

// parseCredential converts the credential JSON map into the typed object.
func parseCredential(credential util.JSONMap) (*VerifiableCredential, error) {
	types, err := util.ParseTypes(credential["type"])
	if err != nil {
		return nil, fmt.Errorf("invalid credential type field: %w", err)
	}

	result := &VerifiableCredential{
		Type:              types,
		CredentialSubject: credential["credentialSubject"],
	}
	result.ID, _ = credential["id"].(string)
	result.Issuer, _ = credential["issuer"].(string)
	result.IssuanceDate, _ = credential["issuanceDate"].(string)

	result.Context, err = parseContexts(credential["@context"])
	if err != nil {
		return nil, fmt.Errorf("invalid credential @context: %w", err)
	}

	if rawStatus, ok := credential["credentialStatus"].(map[string]interface{}); ok {
		status := &CredentialStatus{}
		status.ID, _ = rawStatus["id"].(string)
		status.Type, _ = rawStatus["type"].(string)
		status.RevocationBitmapIndex, _ = rawStatus["revocationBitmapIndex"].(string)
		if status.RevocationBitmapIndex == "" {
			return nil, fmt.Errorf("credentialStatus is missing revocationBitmapIndex")
		}
		result.CredentialStatus = status
	}
	return result, nil
}

// parseContexts validates a decoded @context field and returns its string
// entries. Inline context objects are validated but only string contexts
// are carried in the typed object.
func parseContexts(raw interface{}) ([]string, error) {
	switch ctx := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{ctx}, nil
	case []string:
		return ctx, nil
	case []interface{}:
		validated, err := util.SerializeContexts(ctx)
		if err != nil {
			return nil, err
		}
		contexts := make([]string, 0, len(validated))
		for _, entry := range validated {
			if s, ok := entry.(string); ok {
				contexts = append(contexts, s)
			}
		}
		return contexts, nil
	default:
		return nil, fmt.Errorf("unsupported @context field: %T", raw)
	}
}

// subjectID extracts the subject id that becomes the JWT sub claim. Arrays
// use the first subject's id.
func subjectID(subject interface{}) string {
	switch v := subject.(type) {
	case map[string]interface{}:
		id, _ := v["id"].(string)
		return id
	case []interface{}:
		if len(v) > 0 {
			return subjectID(v[0])
		}
	case []map[string]interface{}:
		if len(v) > 0 {
			return subjectID(map[string]interface{}(v[0]))
		}
	}
	return ""
}
