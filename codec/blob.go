package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeBlob encodes vec as little-endian IEEE 754 float32 values with no
// length prefix. The vec_cosine and vec_l2 SQL functions accept this form
// for BLOB arguments.
func EncodeBlob(vec []float32) []byte {
	if len(vec) == 0 {
		return nil
	}
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// DecodeBlob decodes a BLOB produced by EncodeBlob.
func DecodeBlob(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("codec: invalid vector blob length %d (not multiple of 4)", len(b))
	}
	vec := make([]float32, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec, nil
}
