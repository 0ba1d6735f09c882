// Package revocation implements the compressed bitstring index used to track
// revoked credentials. Each bit position represents one credential; the
// bitmap is gzip-compressed and embedded in a document's revocation service
// endpoint as a base64 data URI.
package revocation

import (
	"fmt"

	"github.com/pilacorp/go-identity-sdk/identity/common/util"
)

const (
	// DefaultBitmapSize is the number of bits in a freshly created bitmap
	// (16KiB uncompressed).
	DefaultBitmapSize = 131072

	// ServiceFragment is the reserved fragment of the document service that
	// carries the bitmap.
	ServiceFragment = "revocation"

	// ServiceType is the service and credentialStatus type for bitmap-backed
	// revocation.
	ServiceType = "RevocationBitmap2022"
)

// Bitmap is a fixed-size bit index. Indices are guarded against the size;
// out-of-range access is a hard error rather than a silent wrap or clamp.
type Bitmap struct {
	bits []byte
	size int
}

// New creates an all-zero bitmap of sizeBits bits.
func New(sizeBits int) (*Bitmap, error) {
	if sizeBits <= 0 {
		return nil, fmt.Errorf("bitmap size must be positive, got %d", sizeBits)
	}
	return &Bitmap{
		bits: make([]byte, (sizeBits+7)/8),
		size: sizeBits,
	}, nil
}

// Size returns the bitmap's capacity in bits.
func (b *Bitmap) Size() int {
	return b.size
}

// Set sets or clears the bit at index.
func (b *Bitmap) Set(index int, value bool) error {
	if err := b.checkIndex(index); err != nil {
		return err
	}
	mask := byte(1) << (index % 8)
	if value {
		b.bits[index/8] |= mask
	} else {
		b.bits[index/8] &^= mask
	}
	return nil
}

// Get reports whether the bit at index is set.
func (b *Bitmap) Get(index int) (bool, error) {
	if err := b.checkIndex(index); err != nil {
		return false, err
	}
	return (b.bits[index/8]>>(index%8))&1 == 1, nil
}

func (b *Bitmap) checkIndex(index int) error {
	if index < 0 || index >= b.size {
		return fmt.Errorf("bitmap index %d out of range [0, %d)", index, b.size)
	}
	return nil
}

// Compressed returns the gzip-compressed byte form of the bitmap.
func (b *Bitmap) Compressed() ([]byte, error) {
	compressed, err := util.Compress(b.bits)
	if err != nil {
		return nil, fmt.Errorf("failed to compress bitmap: %w", err)
	}
	return compressed, nil
}

// FromCompressed decodes a bitmap of sizeBits bits from its gzip-compressed
// form. Malformed input fails with the decode error; it never yields a
// zeroed bitmap.
func FromCompressed(data []byte, sizeBits int) (*Bitmap, error) {
	if sizeBits <= 0 {
		return nil, fmt.Errorf("bitmap size must be positive, got %d", sizeBits)
	}
	bits, err := util.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress bitmap: %w", err)
	}
	if want := (sizeBits + 7) / 8; len(bits) != want {
		return nil, fmt.Errorf("decompressed bitmap is %d bytes, want %d", len(bits), want)
	}
	return &Bitmap{bits: bits, size: sizeBits}, nil
}

// ToDataURI compresses the bitmap and wraps it in the base64 data URI form
// stored in the revocation service endpoint.
func (b *Bitmap) ToDataURI() (string, error) {
	uri, err := util.CompressToDataURI(b.bits)
	if err != nil {
		return "", fmt.Errorf("failed to encode bitmap data URI: %w", err)
	}
	return uri, nil
}

// FromDataURI reverses ToDataURI.
func FromDataURI(uri string, sizeBits int) (*Bitmap, error) {
	if sizeBits <= 0 {
		return nil, fmt.Errorf("bitmap size must be positive, got %d", sizeBits)
	}
	bits, err := util.DecompressFromDataURI(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to decode bitmap data URI: %w", err)
	}
	if want := (sizeBits + 7) / 8; len(bits) != want {
		return nil, fmt.Errorf("decompressed bitmap is %d bytes, want %d", len(bits), want)
	}
	return &Bitmap{bits: bits, size: sizeBits}, nil
}
