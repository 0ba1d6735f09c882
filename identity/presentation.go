package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/pilacorp/go-identity-sdk/identity/common/errs"
	"github.com/pilacorp/go-identity-sdk/identity/common/jwt"
	"github.com/pilacorp/go-identity-sdk/identity/common/util"
	"github.com/pilacorp/go-identity-sdk/identity/document"
)

// TypeVerifiablePresentation is the mandatory first presentation type.
const TypeVerifiablePresentation = "VerifiablePresentation"

// VerifiablePresentation is a holder-signed bundle of credential JWTs.
type VerifiablePresentation struct {
	Context              []string `json:"@context"`
	Type                 []string `json:"type"`
	VerifiableCredential []string `json:"verifiableCredential"`
	Holder               string   `json:"holder"`
}

// PresentationResult is the outcome of creating a presentation.
type PresentationResult struct {
	VerifiablePresentation *VerifiablePresentation `json:"verifiablePresentation"`
	JWT                    string                  `json:"jwt"`
}

// PresentationCheck is the outcome of verifying a presentation. Revoked is
// the logical OR of every embedded credential's revoked status; the
// presentation body is omitted when any credential is revoked. Issuers
// collects each embedded credential's issuer document.
type PresentationCheck struct {
	Revoked                bool                    `json:"revoked"`
	VerifiablePresentation *VerifiablePresentation `json:"verifiablePresentation,omitempty"`
	Issuers                []*document.Document    `json:"issuers,omitempty"`
}

// PresentationOpt configures presentation creation.
type PresentationOpt func(*presentationOptions)

type presentationOptions struct {
	types            []string
	expiresInMinutes int
	expires          bool
}

// WithPresentationTypes appends type names after the mandatory
// VerifiablePresentation entry.
func WithPresentationTypes(types ...string) PresentationOpt {
	return func(o *presentationOptions) {
		o.types = append(o.types, types...)
	}
}

// WithPresentationExpiry sets the exp claim to the given number of minutes
// after issuance.
func WithPresentationExpiry(minutes int) PresentationOpt {
	return func(o *presentationOptions) {
		o.expiresInMinutes = minutes
		o.expires = true
	}
}

// CreateVerifiablePresentation signs a presentation from the holder
// embedding the given credential JWTs. The credentials are carried as-is
// and not re-verified at this stage; verification happens when the
// presentation is checked.
func (c *Connector) CreateVerifiablePresentation(ctx context.Context, holderDocumentID, verificationMethodID string, credentialJWTs []string, opts ...PresentationOpt) (*PresentationResult, error) {
	const op = "createVerifiablePresentation"

	if len(credentialJWTs) == 0 {
		return nil, errs.NewValidation(op, "credentialJwts", "must not be empty")
	}

	options := &presentationOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.expires && options.expiresInMinutes < 0 {
		return nil, errs.NewValidation(op, "expiresInMinutes", "must not be negative")
	}

	doc, err := c.resolveDocument(ctx, op, holderDocumentID)
	if err != nil {
		return nil, err
	}
	method, keyPair, err := c.methodSigningKey(ctx, op, doc, verificationMethodID)
	if err != nil {
		return nil, err
	}

	presentation := &VerifiablePresentation{
		Context:              []string{ContextCredentials},
		Type:                 append([]string{TypeVerifiablePresentation}, options.types...),
		VerifiableCredential: credentialJWTs,
		Holder:               doc.ID,
	}

	issuedAt := c.now().UTC()
	claims := map[string]interface{}{
		"iss": doc.ID,
		"nbf": issuedAt.Unix(),
		"vp": util.JSONMap{
			"@context":             presentation.Context,
			"type":                 util.SerializeTypes(presentation.Type),
			"verifiableCredential": presentation.VerifiableCredential,
		},
	}
	if options.expires {
		claims["exp"] = issuedAt.Add(time.Duration(options.expiresInMinutes) * time.Minute).Unix()
	}

	token, err := jwt.NewSigner(method.ID).Sign(claims, keyPair)
	if err != nil {
		return nil, errs.NewOperation(op, err)
	}

	return &PresentationResult{VerifiablePresentation: presentation, JWT: token}, nil
}

// CheckVerifiablePresentation verifies a presentation JWT: the holder's
// signature and expiry, then every embedded credential against its own
// issuer's document and live revocation bitmap. Any signature failure is a
// hard error; only revocation-bitmap hits produce the revoked outcome.
func (c *Connector) CheckVerifiablePresentation(ctx context.Context, presentationJWT string) (*PresentationCheck, error) {
	const op = "checkVerifiablePresentation"

	token, err := jwt.Decode(presentationJWT)
	if err != nil {
		return nil, errs.NewOperation(op, err)
	}

	holder, ok := token.Claims["iss"].(string)
	if !ok || holder == "" {
		return nil, errs.NewOperation(op, fmt.Errorf("%w: missing iss claim", jwt.ErrMalformedToken))
	}
	holderDoc, err := c.resolveDocument(ctx, op, holder)
	if err != nil {
		return nil, err
	}

	publicKey, err := methodPublicKey(holderDoc, token.Kid())
	if err != nil {
		return nil, errs.NewOperation(op, err)
	}
	if err := jwt.VerifySignature(token, publicKey); err != nil {
		return nil, errs.NewOperation(op, err)
	}

	if exp, ok := token.Claims["exp"].(float64); ok {
		if c.now().UTC().After(time.Unix(int64(exp), 0).UTC()) {
			return nil, errs.NewOperation(op, fmt.Errorf("presentation expired at %s",
				time.Unix(int64(exp), 0).UTC().Format(time.RFC3339)))
		}
	}

	presentation, err := parsePresentation(token, holder)
	if err != nil {
		return nil, errs.NewOperation(op, err)
	}

	check := &PresentationCheck{}
	seenIssuers := make(map[string]bool)
	for _, credentialJWT := range presentation.VerifiableCredential {
		credentialCheck, issuerDoc, err := c.checkCredentialToken(ctx, op, credentialJWT)
		if err != nil {
			return nil, err
		}
		if credentialCheck.Revoked {
			check.Revoked = true
		}
		if !seenIssuers[issuerDoc.ID] {
			seenIssuers[issuerDoc.ID] = true
			check.Issuers = append(check.Issuers, issuerDoc)
		}
	}

	if !check.Revoked {
		check.VerifiablePresentation = presentation
	}
	return check, nil
}

// parsePresentation rebuilds the presentation object from the token's vp
// claim plus the lifted iss claim.
func parsePresentation(token *jwt.Token, holder string) (*VerifiablePresentation, error) {
	claim, err := jwt.DocumentClaim(token, "vp")
	if err != nil {
		return nil, err
	}

	types, err := util.ParseTypes(claim["type"])
	if err != nil {
		return nil, fmt.Errorf("invalid presentation type field: %w", err)
	}

	presentation := &VerifiablePresentation{
		Type:   types,
		Holder: holder,
	}

	presentation.Context, err = parseContexts(claim["@context"])
	if err != nil {
		return nil, fmt.Errorf("invalid presentation @context: %w", err)
	}

	switch credentials := claim["verifiableCredential"].(type) {
	case []interface{}:
		for _, entry := range credentials {
			credentialJWT, ok := entry.(string)
			if !ok {
				return nil, fmt.Errorf("verifiableCredential entry must be a JWT string, got %T", entry)
			}
			presentation.VerifiableCredential = append(presentation.VerifiableCredential, credentialJWT)
		}
	case []string:
		presentation.VerifiableCredential = credentials
	case nil:
		return nil, fmt.Errorf("presentation carries no verifiableCredential claim")
	default:
		return nil, fmt.Errorf("unsupported verifiableCredential claim: %T", credentials)
	}
	return presentation, nil
}
