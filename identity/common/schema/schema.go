// Package schema validates credentials against the JSON schemas referenced
// by their credentialSchema entries.
package schema

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateCredential validates the credential JSON against every
// credentialSchema entry it carries. A credential without credentialSchema
// passes; a schema entry without a usable id fails.
func ValidateCredential(credential map[string]interface{}) error {
	raw, exists := credential["credentialSchema"]
	if !exists || raw == nil {
		return nil
	}

	for _, entry := range asArray(raw) {
		schemaMap, ok := entry.(map[string]interface{})
		if !ok {
			return fmt.Errorf("credentialSchema entry must be an object, got %T", entry)
		}

		schemaID, ok := schemaMap["id"].(string)
		if !ok || schemaID == "" {
			return fmt.Errorf("credentialSchema.id must be a non-empty string")
		}

		schemaLoader := gojsonschema.NewReferenceLoader(schemaID)
		credentialLoader := gojsonschema.NewGoLoader(credential)

		result, err := gojsonschema.Validate(schemaLoader, credentialLoader)
		if err != nil {
			return fmt.Errorf("failed to validate against schema %q: %w", schemaID, err)
		}
		if !result.Valid() {
			return fmt.Errorf("credential does not conform to schema %q: %v", schemaID, result.Errors())
		}
	}
	return nil
}

func asArray(value interface{}) []interface{} {
	if arr, ok := value.([]interface{}); ok {
		return arr
	}
	return []interface{}{value}
}
