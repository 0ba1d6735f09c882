package identity

import (
	"time"
)

// ConnectorOpt configures an identity connector.
type ConnectorOpt func(*connectorOptions)

type connectorOptions struct {
	method         string
	bitmapSize     int
	validateSchema bool
	now            func() time.Time
}

// WithMethod sets the DID method name used for created documents
// (default "mem").
func WithMethod(method string) ConnectorOpt {
	return func(o *connectorOptions) {
		if method != "" {
			o.method = method
		}
	}
}

// WithBitmapSize sets the revocation bitmap capacity in bits for created
// documents.
func WithBitmapSize(sizeBits int) ConnectorOpt {
	return func(o *connectorOptions) {
		if sizeBits > 0 {
			o.bitmapSize = sizeBits
		}
	}
}

// WithSchemaValidation enables credentialSchema validation when checking
// credentials.
func WithSchemaValidation() ConnectorOpt {
	return func(o *connectorOptions) {
		o.validateSchema = true
	}
}

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) ConnectorOpt {
	return func(o *connectorOptions) {
		if now != nil {
			o.now = now
		}
	}
}
