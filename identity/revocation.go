package identity

import (
	"context"
	"fmt"

	"github.com/pilacorp/go-identity-sdk/identity/common/errs"
	"github.com/pilacorp/go-identity-sdk/identity/common/revocation"
	"github.com/pilacorp/go-identity-sdk/identity/document"
)

// RevokeVerifiableCredentials sets the given bitmap indices on the issuer's
// revocation service. Credentials carrying a matching revocationBitmapIndex
// check as revoked from that point on.
func (c *Connector) RevokeVerifiableCredentials(ctx context.Context, issuerDocumentID string, indices []int) error {
	return c.setRevocation(ctx, "revokeVerifiableCredentials", issuerDocumentID, indices, true)
}

// UnrevokeVerifiableCredentials clears the given bitmap indices on the
// issuer's revocation service.
func (c *Connector) UnrevokeVerifiableCredentials(ctx context.Context, issuerDocumentID string, indices []int) error {
	return c.setRevocation(ctx, "unrevokeVerifiableCredentials", issuerDocumentID, indices, false)
}

func (c *Connector) setRevocation(ctx context.Context, op, issuerDocumentID string, indices []int, value bool) error {
	if len(indices) == 0 {
		return errs.NewValidation(op, "indices", "must not be empty")
	}
	for _, index := range indices {
		if index < 0 {
			return errs.NewValidation(op, "indices", fmt.Sprintf("index %d is negative", index))
		}
	}

	doc, err := c.resolveDocument(ctx, op, issuerDocumentID)
	if err != nil {
		return err
	}

	bitmap, err := c.documentBitmap(doc)
	if err != nil {
		return errs.NewOperation(op, err)
	}
	for _, index := range indices {
		if err := bitmap.Set(index, value); err != nil {
			return errs.NewValidation(op, "indices", err.Error())
		}
	}
	if err := c.writeDocumentBitmap(doc, bitmap); err != nil {
		return errs.NewOperation(op, err)
	}

	if err := c.store.Set(ctx, doc); err != nil {
		return errs.NewOperation(op, fmt.Errorf("failed to persist document: %w", err))
	}
	return nil
}

// documentBitmap decodes the revocation bitmap out of the document's
// revocation service.
func (c *Connector) documentBitmap(doc *document.Document) (*revocation.Bitmap, error) {
	service, err := doc.FindService(doc.ID + "#" + revocation.ServiceFragment)
	if err != nil {
		return nil, fmt.Errorf("document %q has no revocation service: %w", doc.ID, err)
	}
	bitmap, err := revocation.FromDataURI(service.ServiceEndpoint, c.bitmapSize)
	if err != nil {
		return nil, fmt.Errorf("failed to decode revocation bitmap of %q: %w", doc.ID, err)
	}
	return bitmap, nil
}

// writeDocumentBitmap re-encodes the bitmap into the document's revocation
// service endpoint.
func (c *Connector) writeDocumentBitmap(doc *document.Document, bitmap *revocation.Bitmap) error {
	endpoint, err := bitmap.ToDataURI()
	if err != nil {
		return err
	}
	return doc.AddService(document.Service{
		ID:              doc.ID + "#" + revocation.ServiceFragment,
		Type:            revocation.ServiceType,
		ServiceEndpoint: endpoint,
	})
}
