package util

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{
			name:  "simple string",
			input: []byte("Hello, World!"),
		},
		{
			name:  "empty input",
			input: []byte(""),
		},
		{
			name:  "binary data",
			input: []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09},
		},
		{
			name:  "all zero bitmap",
			input: make([]byte, 16384),
		},
		{
			name:  "large repetitive data",
			input: bytes.Repeat([]byte("This is a test string for compression. "), 1000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compressed, err := Compress(tt.input)
			if err != nil {
				t.Fatalf("Compress() failed: %v", err)
			}

			decompressed, err := Decompress(compressed)
			if err != nil {
				t.Fatalf("Decompress() failed: %v", err)
			}

			if !bytes.Equal(tt.input, decompressed) {
				t.Errorf("round trip failed: input = %v, decompressed = %v", tt.input, decompressed)
			}
		})
	}
}

func TestDecompressMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{
			name:  "empty data",
			input: []byte{},
		},
		{
			name:  "not gzip",
			input: []byte("invalid gzip data"),
		},
		{
			name:  "truncated gzip header",
			input: []byte{0x1f, 0x8b, 0x08, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decompress(tt.input); err == nil {
				t.Errorf("Decompress() succeeded on malformed input")
			}
		})
	}
}

func TestDataURIRoundTrip(t *testing.T) {
	input := make([]byte, 16384)
	input[0] = 0x01
	input[16383] = 0x80

	uri, err := CompressToDataURI(input)
	if err != nil {
		t.Fatalf("CompressToDataURI() failed: %v", err)
	}
	if !strings.HasPrefix(uri, DataURIPrefix) {
		t.Fatalf("CompressToDataURI() = %q, missing prefix %q", uri[:40], DataURIPrefix)
	}

	decompressed, err := DecompressFromDataURI(uri)
	if err != nil {
		t.Fatalf("DecompressFromDataURI() failed: %v", err)
	}
	if !bytes.Equal(input, decompressed) {
		t.Errorf("data URI round trip failed")
	}
}

func TestDecompressFromDataURIRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "missing prefix",
			input: "SGVsbG8=",
		},
		{
			name:  "wrong media type",
			input: "data:text/plain;base64,SGVsbG8=",
		},
		{
			name:  "valid prefix but not gzip",
			input: DataURIPrefix + base64.StdEncoding.EncodeToString([]byte("not gzip")),
		},
		{
			name:  "valid prefix but not base64",
			input: DataURIPrefix + "!!!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecompressFromDataURI(tt.input); err == nil {
				t.Errorf("DecompressFromDataURI() succeeded on bad input")
			}
		})
	}
}

func TestDecompressFromBase64URL(t *testing.T) {
	input := []byte("status list payload")

	encoded, err := CompressToBase64URL(input)
	if err != nil {
		t.Fatalf("CompressToBase64URL() failed: %v", err)
	}

	decompressed, err := DecompressFromBase64URL(encoded)
	if err != nil {
		t.Fatalf("DecompressFromBase64URL() failed: %v", err)
	}
	if !bytes.Equal(input, decompressed) {
		t.Errorf("base64url round trip failed")
	}

	if _, err := DecompressFromBase64URL("invalid-base64!@#"); err == nil {
		t.Errorf("DecompressFromBase64URL() succeeded on invalid base64")
	}
}

func BenchmarkCompress(b *testing.B) {
	data := make([]byte, 16384)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := Compress(data); err != nil {
			b.Fatalf("Compress() failed: %v", err)
		}
	}
}
