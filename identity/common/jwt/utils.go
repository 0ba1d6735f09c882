package jwt

import (
	"fmt"
)

// DocumentClaim extracts the embedded document claim ("vc" or "vp") from a
// decoded token's payload.
func DocumentClaim(t *Token, docType string) (map[string]interface{}, error) {
	raw, ok := t.Claims[docType]
	if !ok {
		return nil, fmt.Errorf("claim %q not found in JWT payload", docType)
	}

	doc, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("claim %q is not a JSON object", docType)
	}
	return doc, nil
}
