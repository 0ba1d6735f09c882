// Package identity implements the in-memory identity connector: DID
// document lifecycle, verification method and service management,
// credential and presentation issuance/verification, revocation maintenance
// and raw proof operations.
package identity

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pilacorp/go-identity-sdk/identity/common/errs"
	"github.com/pilacorp/go-identity-sdk/identity/common/revocation"
	"github.com/pilacorp/go-identity-sdk/identity/document"
	"github.com/pilacorp/go-identity-sdk/identity/storage"
	"github.com/pilacorp/go-identity-sdk/identity/vault"
)

// DefaultMethod is the DID method of documents created without WithMethod.
const DefaultMethod = "mem"

// Connector orchestrates the document store and the vault.
//
// Document updates are read-modify-write without version tokens: two
// concurrent mutations of the same document race and the last writer wins.
// This matches the system the connector models; callers needing stronger
// guarantees must serialize per document id.
type Connector struct {
	store storage.DocumentStore
	vault vault.Connector

	method         string
	bitmapSize     int
	validateSchema bool
	now            func() time.Time
}

// NewConnector creates an identity connector over the given document store
// and vault.
func NewConnector(store storage.DocumentStore, vaultConnector vault.Connector, opts ...ConnectorOpt) (*Connector, error) {
	if store == nil {
		return nil, fmt.Errorf("document store is required")
	}
	if vaultConnector == nil {
		return nil, fmt.Errorf("vault connector is required")
	}

	options := &connectorOptions{
		method:     DefaultMethod,
		bitmapSize: revocation.DefaultBitmapSize,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Connector{
		store:          store,
		vault:          vaultConnector,
		method:         options.method,
		bitmapSize:     options.bitmapSize,
		validateSchema: options.validateSchema,
		now:            options.now,
	}, nil
}

// CreateDocument creates a new DID document with a fresh identifier and an
// all-zero revocation bitmap service, persists it and returns it. The
// controller names the party the document is created for; it scopes nothing
// in the in-memory connector but is validated for parity with the vault
// partitioning of remote connectors.
func (c *Connector) CreateDocument(ctx context.Context, controller string) (*document.Document, error) {
	const op = "createDocument"

	if controller == "" {
		return nil, errs.NewValidation(op, "controller", "must not be empty")
	}

	u := uuid.New()
	did := fmt.Sprintf("did:%s:%s", c.method, hex.EncodeToString(u[:]))

	doc := document.New(did)

	bitmap, err := revocation.New(c.bitmapSize)
	if err != nil {
		return nil, errs.NewOperation(op, err)
	}
	endpoint, err := bitmap.ToDataURI()
	if err != nil {
		return nil, errs.NewOperation(op, err)
	}
	if err := doc.AddService(document.Service{
		ID:              did + "#" + revocation.ServiceFragment,
		Type:            revocation.ServiceType,
		ServiceEndpoint: endpoint,
	}); err != nil {
		return nil, errs.NewOperation(op, err)
	}

	if err := c.store.Set(ctx, doc); err != nil {
		return nil, errs.NewOperation(op, fmt.Errorf("failed to persist document: %w", err))
	}
	return doc, nil
}

// ResolveDocument fetches the document with the given id.
func (c *Connector) ResolveDocument(ctx context.Context, documentID string) (*document.Document, error) {
	return c.resolveDocument(ctx, "resolveDocument", documentID)
}

func (c *Connector) resolveDocument(ctx context.Context, op, documentID string) (*document.Document, error) {
	if documentID == "" {
		return nil, errs.NewValidation(op, "documentId", "must not be empty")
	}
	doc, err := c.store.Get(ctx, documentID)
	if err != nil {
		return nil, errs.NewOperation(op, fmt.Errorf("failed to read document: %w", err))
	}
	if doc == nil {
		return nil, errs.NewNotFound(op, documentID)
	}
	return doc, nil
}

// AddVerificationMethod creates a key in the vault, wraps its public part
// in a JWK verification method and inserts it into the document under the
// given purpose. When fragment is empty the method id is derived from the
// JWK's content-addressed kid. A method with the same id is replaced,
// whichever purpose array previously held it.
//
// The key is generated under a temporary vault id and renamed to the final
// document-scoped id only once the method is ready, so a failure partway
// never leaves a half-attached key under its final address.
func (c *Connector) AddVerificationMethod(ctx context.Context, documentID, purpose, fragment string) (*document.VerificationMethod, error) {
	const op = "addVerificationMethod"

	parsedPurpose, err := document.ParsePurpose(purpose)
	if err != nil {
		return nil, errs.NewValidation(op, "purpose", err.Error())
	}

	doc, err := c.resolveDocument(ctx, op, documentID)
	if err != nil {
		return nil, err
	}

	tempKeyID := "temp:" + uuid.NewString()
	publicKey, err := c.vault.CreateKey(ctx, tempKeyID, vault.AlgEd25519)
	if err != nil {
		return nil, errs.NewOperation(op, fmt.Errorf("failed to create key: %w", err))
	}

	jwk := document.NewEd25519JWK(publicKey)
	kid, err := jwk.ComputeKid()
	if err != nil {
		return nil, errs.NewOperation(op, err)
	}
	jwk.Kid = kid

	if fragment == "" {
		fragment = kid
	}
	methodID := doc.ID + "#" + fragment

	if err := c.vault.RenameKey(ctx, tempKeyID, methodID); err != nil {
		return nil, errs.NewOperation(op, fmt.Errorf("failed to commit key: %w", err))
	}

	method := document.VerificationMethod{
		ID:           methodID,
		Controller:   doc.ID,
		Type:         document.MethodTypeJSONWebKey,
		PublicKeyJwk: &jwk,
	}
	if err := doc.AddVerificationMethod(parsedPurpose, method); err != nil {
		return nil, errs.NewOperation(op, err)
	}

	if err := c.store.Set(ctx, doc); err != nil {
		return nil, errs.NewOperation(op, fmt.Errorf("failed to persist document: %w", err))
	}
	return &method, nil
}

// RemoveVerificationMethod removes the method from the document. The
// underlying vault key is left in place.
func (c *Connector) RemoveVerificationMethod(ctx context.Context, documentID, verificationMethodID string) error {
	const op = "removeVerificationMethod"

	if verificationMethodID == "" {
		return errs.NewValidation(op, "verificationMethodId", "must not be empty")
	}

	doc, err := c.resolveDocument(ctx, op, documentID)
	if err != nil {
		return err
	}

	if err := doc.RemoveVerificationMethod(verificationMethodID); err != nil {
		return err
	}

	if err := c.store.Set(ctx, doc); err != nil {
		return errs.NewOperation(op, fmt.Errorf("failed to persist document: %w", err))
	}
	return nil
}

// AddService adds a service to the document, replacing any service with the
// same id.
func (c *Connector) AddService(ctx context.Context, documentID string, service document.Service) (*document.Service, error) {
	const op = "addService"

	if service.ID == "" {
		return nil, errs.NewValidation(op, "service.id", "must not be empty")
	}
	if service.Type == "" {
		return nil, errs.NewValidation(op, "service.type", "must not be empty")
	}
	if service.ServiceEndpoint == "" {
		return nil, errs.NewValidation(op, "service.serviceEndpoint", "must not be empty")
	}

	doc, err := c.resolveDocument(ctx, op, documentID)
	if err != nil {
		return nil, err
	}

	service.ID = doc.QualifyFragment(service.ID)
	if err := doc.AddService(service); err != nil {
		return nil, errs.NewOperation(op, err)
	}

	if err := c.store.Set(ctx, doc); err != nil {
		return nil, errs.NewOperation(op, fmt.Errorf("failed to persist document: %w", err))
	}
	return &service, nil
}

// RemoveService removes the service with the given id from the document.
func (c *Connector) RemoveService(ctx context.Context, documentID, serviceID string) error {
	const op = "removeService"

	if serviceID == "" {
		return errs.NewValidation(op, "serviceId", "must not be empty")
	}

	doc, err := c.resolveDocument(ctx, op, documentID)
	if err != nil {
		return err
	}

	if err := doc.RemoveService(serviceID); err != nil {
		return err
	}

	if err := c.store.Set(ctx, doc); err != nil {
		return errs.NewOperation(op, fmt.Errorf("failed to persist document: %w", err))
	}
	return nil
}
