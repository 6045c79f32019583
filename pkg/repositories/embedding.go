package repositories

import (
	"encoding/binary"
	"fmt"
	"math"
)

// encodeEmbedding serializes a vector as little-endian float32 bytes for the
// embedding BLOB column. A nil vector encodes as nil, which stores SQL NULL -
// "no embedding" is a genuinely absent value, never a zero vector.
func encodeEmbedding(vec []float32) []byte {
	if vec == nil {
		return nil
	}
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// decodeEmbedding deserializes an embedding BLOB. NULL columns come back as
// empty slices from the driver; both decode to nil.
func decodeEmbedding(buf []byte) ([]float32, error) {
	if len(buf) == 0 {
		return nil, nil
	}
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("malformed embedding blob: %d bytes", len(buf))
	}
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec, nil
}
