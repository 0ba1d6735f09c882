// Package processor provides JSON-LD canonicalization and digesting for
// data-integrity proofs.
package processor

import (
	"crypto/sha256"
	"fmt"

	"github.com/piprate/json-gold/ld"
)

// defaultDocumentLoader is a shared caching loader to prevent repeated
// remote context fetches across calls.
var defaultDocumentLoader ld.DocumentLoader

func init() {
	innerLoader := ld.NewDefaultDocumentLoader(nil)
	defaultDocumentLoader = ld.NewCachingDocumentLoader(innerLoader)
}

// CanonicalizeDocument canonicalizes a JSON document with URDNA2015,
// returning the normalized n-quads form.
func CanonicalizeDocument(doc map[string]interface{}) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("failed to canonicalize document: document is nil")
	}

	proc := ld.NewJsonLdProcessor()
	options := ld.NewJsonLdOptions("")
	options.Format = "application/n-quads"
	options.Algorithm = ld.AlgorithmURDNA2015
	options.DocumentLoader = defaultDocumentLoader

	normalized, err := proc.Normalize(standardize(doc), options)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize document: %w", err)
	}

	return []byte(normalized.(string)), nil
}

// ComputeDigest computes the SHA-256 digest of the input data.
func ComputeDigest(data []byte) []byte {
	hash := sha256.Sum256(data)
	return hash[:]
}

// standardize converts a map to a JSON-LD-compatible form, forcing scalar
// values to typed literals so untyped terms survive normalization.
func standardize(input map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(input))
	for key, value := range input {
		result[key] = toCompatible(value)
	}
	return result
}

func toCompatible(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		return v
	case map[string]interface{}:
		return standardize(v)
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, val := range v {
			result[i] = toCompatible(val)
		}
		return result
	case []string:
		result := make([]interface{}, len(v))
		for i, val := range v {
			result[i] = val
		}
		return result
	case bool:
		return map[string]interface{}{
			"@value": fmt.Sprintf("%v", v),
			"@type":  "http://www.w3.org/2001/XMLSchema#boolean",
		}
	case nil:
		return nil
	default:
		// Numbers and anything else become string literals.
		return map[string]interface{}{
			"@value": fmt.Sprintf("%v", v),
			"@type":  "http://www.w3.org/2001/XMLSchema#string",
		}
	}
}
