package util

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// DataURIPrefix is the media-type prefix used when a compressed payload is
// embedded in a DID service endpoint.
const DataURIPrefix = "data:application/octet-stream;base64,"

func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	gz := gzip.NewWriter(&buf)

	_, err := gz.Write(data)
	if err != nil {
		return nil, err
	}

	err = gz.Close()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func Decompress(data []byte) ([]byte, error) {
	buf := bytes.NewBuffer(data)

	gz, err := gzip.NewReader(buf)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	return io.ReadAll(gz)
}

func CompressToBase64(data []byte) (string, error) {
	compressed, err := Compress(data)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(compressed), nil
}

func DecompressFromBase64(data string) ([]byte, error) {
	compressed, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}

	return Decompress(compressed)
}

func CompressToBase64URL(data []byte) (string, error) {
	compressed, err := Compress(data)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(compressed), nil
}

func DecompressFromBase64URL(data string) ([]byte, error) {
	compressed, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}
	return Decompress(compressed)
}

// CompressToDataURI compresses data and wraps it in a base64 data URI,
// the form stored in a document's revocation service endpoint.
func CompressToDataURI(data []byte) (string, error) {
	encoded, err := CompressToBase64(data)
	if err != nil {
		return "", err
	}
	return DataURIPrefix + encoded, nil
}

// DecompressFromDataURI reverses CompressToDataURI. The URI must carry the
// exact octet-stream prefix; anything else is rejected rather than guessed
// at.
func DecompressFromDataURI(uri string) ([]byte, error) {
	encoded, ok := strings.CutPrefix(uri, DataURIPrefix)
	if !ok {
		return nil, fmt.Errorf("data URI must start with %q", DataURIPrefix)
	}
	return DecompressFromBase64(encoded)
}
