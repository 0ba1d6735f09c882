package util

import (
	"reflect"
	"testing"
)

func TestSerializeContexts(t *testing.T) {
	tests := []struct {
		name     string
		contexts []interface{}
		wantErr  bool
	}{
		{
			name:     "string contexts",
			contexts: []interface{}{"https://www.w3.org/2018/credentials/v1", "https://schema.org"},
		},
		{
			name: "inline context object",
			contexts: []interface{}{
				"https://www.w3.org/2018/credentials/v1",
				JSONMap{"name": "http://schema.org/name"},
			},
		},
		{
			name:     "empty string entry",
			contexts: []interface{}{""},
			wantErr:  true,
		},
		{
			name: "nested @context",
			contexts: []interface{}{
				JSONMap{"@context": "https://schema.org"},
			},
			wantErr: true,
		},
		{
			name:     "unsupported entry type",
			contexts: []interface{}{42},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validated, err := SerializeContexts(tt.contexts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("SerializeContexts() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("SerializeContexts() failed: %v", err)
			}
			if !reflect.DeepEqual(validated, tt.contexts) {
				t.Errorf("SerializeContexts() = %v, want %v", validated, tt.contexts)
			}
		})
	}
}

func TestSplitJSONObj(t *testing.T) {
	obj := JSONMap{
		"proof": JSONMap{"type": "DataIntegrityProof"},
		"name":  "Alice",
		"age":   float64(30),
	}

	value, rest := SplitJSONObj(obj, "proof")
	if !reflect.DeepEqual(value, JSONMap{"type": "DataIntegrityProof"}) {
		t.Errorf("SplitJSONObj() value = %v", value)
	}
	if _, exists := rest["proof"]; exists {
		t.Error("rest must not contain the split field")
	}
	if rest["name"] != "Alice" || rest["age"] != float64(30) {
		t.Errorf("rest lost fields: %v", rest)
	}
	if len(obj) != 3 {
		t.Error("input object must not be mutated")
	}

	value, rest = SplitJSONObj(obj, "missing")
	if value != nil {
		t.Errorf("missing field must yield nil, got %v", value)
	}
	if len(rest) != 3 {
		t.Errorf("rest must carry all fields, got %v", rest)
	}
}
