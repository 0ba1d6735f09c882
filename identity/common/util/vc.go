package util

import (
	"fmt"

	"github.com/pilacorp/go-identity-sdk/identity/common/dto"
)

// JSONMap represents a JSON object as a map.
type JSONMap = map[string]interface{}

// SerializeTypes converts a slice of type strings to a JSON-LD compatible
// format: a bare string for one entry, an array otherwise.
func SerializeTypes(types []string) interface{} {
	if len(types) == 0 {
		return nil
	}
	if len(types) == 1 {
		return types[0]
	}
	return MapSlice(types, func(t string) interface{} { return t })
}

// ParseTypes reverses SerializeTypes, accepting a bare string or an array.
func ParseTypes(raw interface{}) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []interface{}:
		types := make([]string, 0, len(v))
		for _, t := range v {
			str, ok := t.(string)
			if !ok {
				return nil, fmt.Errorf("type entry must be a string, got %T", t)
			}
			types = append(types, str)
		}
		return types, nil
	default:
		return nil, fmt.Errorf("unsupported type field: %T", raw)
	}
}

// MapSlice transforms a slice of type T to a slice of type U using a mapping
// function.
func MapSlice[T any, U any](slice []T, mapFn func(T) U) []U {
	result := make([]U, 0, len(slice))
	for _, v := range slice {
		result = append(result, mapFn(v))
	}
	return result
}

// SerializeContexts validates a slice of JSON-LD context entries. Entries
// must be non-empty strings or maps without a nested @context.
func SerializeContexts(contexts []interface{}) ([]interface{}, error) {
	validated := make([]interface{}, 0, len(contexts))
	for i, ctx := range contexts {
		switch v := ctx.(type) {
		case string:
			if v == "" {
				return nil, fmt.Errorf("context string at index %d is empty", i)
			}
			validated = append(validated, v)
		case JSONMap:
			if _, hasContext := v["@context"]; hasContext {
				return nil, fmt.Errorf("context object at index %d must not contain nested @context", i)
			}
			validated = append(validated, v)
		default:
			return nil, fmt.Errorf("context entry at index %d must be string or map, got %T", i, v)
		}
	}
	return validated, nil
}

// ShallowCopyObj returns a shallow copy of a JSON object.
func ShallowCopyObj(obj JSONMap) JSONMap {
	result := make(JSONMap, len(obj))
	for k, v := range obj {
		result[k] = v
	}
	return result
}

// SplitJSONObj splits a JSON object into the named field and the rest.
func SplitJSONObj(obj JSONMap, field string) (interface{}, JSONMap) {
	rest := make(JSONMap, len(obj))
	var value interface{}
	for k, v := range obj {
		if k == field {
			value = v
			continue
		}
		rest[k] = v
	}
	return value, rest
}

// SerializeProofs converts a slice of Proof structs to a JSON-LD compatible
// format, omitting empty fields.
func SerializeProofs(proofs []dto.Proof) interface{} {
	if len(proofs) == 0 {
		return nil
	}
	result := make([]JSONMap, len(proofs))
	for i, proof := range proofs {
		proofMap := make(JSONMap)
		if proof.Type != "" {
			proofMap["type"] = proof.Type
		}
		if proof.Created != "" {
			proofMap["created"] = proof.Created
		}
		if proof.VerificationMethod != "" {
			proofMap["verificationMethod"] = proof.VerificationMethod
		}
		if proof.ProofPurpose != "" {
			proofMap["proofPurpose"] = proof.ProofPurpose
		}
		if proof.ProofValue != "" {
			proofMap["proofValue"] = proof.ProofValue
		}
		if proof.Cryptosuite != "" {
			proofMap["cryptosuite"] = proof.Cryptosuite
		}
		result[i] = proofMap
	}
	if len(result) == 1 {
		return result[0]
	}
	return result
}

// ParseProof converts a single proof map into a Proof struct. Type,
// verificationMethod and proofPurpose are mandatory.
func ParseProof(proof JSONMap) (dto.Proof, error) {
	var result dto.Proof
	if t, ok := proof["type"].(string); ok && t != "" {
		result.Type = t
	} else {
		return dto.Proof{}, fmt.Errorf("invalid or missing proof type field")
	}
	if vm, ok := proof["verificationMethod"].(string); ok && vm != "" {
		result.VerificationMethod = vm
	} else {
		return dto.Proof{}, fmt.Errorf("invalid or missing proof verificationMethod field")
	}
	if pp, ok := proof["proofPurpose"].(string); ok && pp != "" {
		result.ProofPurpose = pp
	} else {
		return dto.Proof{}, fmt.Errorf("invalid or missing proofPurpose field")
	}
	if created, ok := proof["created"].(string); ok {
		result.Created = created
	}
	if pv, ok := proof["proofValue"].(string); ok {
		result.ProofValue = pv
	}
	if cs, ok := proof["cryptosuite"].(string); ok {
		result.Cryptosuite = cs
	}
	if ch, ok := proof["challenge"].(string); ok {
		result.Challenge = ch
	}
	if dm, ok := proof["domain"].(string); ok {
		result.Domain = dm
	}
	return result, nil
}
