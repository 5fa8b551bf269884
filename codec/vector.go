package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// EncodeVector encodes vec as a JSON array of numbers. A nil slice encodes
// as "[]". NaN and infinities have no JSON representation and are rejected.
func EncodeVector(vec []float64) (string, error) {
	if len(vec) == 0 {
		return "[]", nil
	}
	for i, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", fmt.Errorf("codec: vector[%d] = %v is not encodable", i, v)
		}
	}
	b, err := json.Marshal(vec)
	if err != nil {
		return "", fmt.Errorf("codec: encode vector: %w", err)
	}
	return string(b), nil
}

// ParseVector decodes a JSON array of numbers. Empty text and JSON null
// yield an empty, non-nil slice.
func ParseVector(text string) ([]float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []float64{}, nil
	}
	var vec []float64
	if err := json.Unmarshal([]byte(text), &vec); err != nil {
		return nil, fmt.Errorf("codec: invalid vector: %w", err)
	}
	if vec == nil {
		vec = []float64{}
	}
	return vec, nil
}

// DecodeVector is ParseVector with malformed input mapped to an empty slice.
func DecodeVector(text string) []float64 {
	vec, err := ParseVector(text)
	if err != nil {
		return []float64{}
	}
	return vec
}

// Float32s narrows vec for the float32 vector kernels.
func Float32s(vec []float64) []float32 {
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out
}
