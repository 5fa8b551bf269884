package engine

import (
	"database/sql/driver"
	"fmt"
	"math"
	"sync"

	"github.com/viant/notenest/codec"
	"github.com/viant/vec/search"
	sqlite "modernc.org/sqlite"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterVectorFunctions registers vec_cosine and vec_l2 with the driver so
// they are available on connections opened after this call. Existing open
// connections will not see the functions. Safe to call repeatedly.
//
// Both functions take two vectors, each either JSON-array TEXT or a float32
// BLOB (see codec.EncodeBlob), and return NULL when the vectors cannot be
// compared (NULL input, malformed data, dimension mismatch, zero magnitude
// for cosine).
func RegisterVectorFunctions() error {
	registerOnce.Do(func() {
		if err := sqlite.RegisterDeterministicScalarFunction("vec_cosine", 2, vecCosineImpl); err != nil {
			registerErr = fmt.Errorf("engine: register vec_cosine: %w", err)
			return
		}
		if err := sqlite.RegisterDeterministicScalarFunction("vec_l2", 2, vecL2Impl); err != nil {
			registerErr = fmt.Errorf("engine: register vec_l2: %w", err)
		}
	})
	return registerErr
}

// Cosine returns the cosine similarity of a and b; ok is false when the
// vectors are empty, differ in length or either has zero magnitude.
func Cosine(a, b []float32) (similarity float64, ok bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	va := search.Float32s(a)
	ma, mb := va.Magnitude(), search.Float32s(b).Magnitude()
	if ma == 0 || mb == 0 {
		return 0, false
	}
	sim := 1 - float64(va.CosineDistance(b))
	if math.IsNaN(sim) {
		return 0, false
	}
	return sim, true
}

// L2 returns the Euclidean distance between a and b; ok is false when the
// vectors differ in length.
func L2(a, b []float32) (distance float64, ok bool) {
	if len(a) != len(b) {
		return 0, false
	}
	return float64(search.Float32s(a).EuclideanDistance(b)), true
}

func asVector(arg driver.Value) ([]float32, bool) {
	switch v := arg.(type) {
	case string:
		vec, err := codec.ParseVector(v)
		if err != nil {
			return nil, false
		}
		return codec.Float32s(vec), true
	case []byte:
		vec, err := codec.DecodeBlob(v)
		if err != nil {
			return nil, false
		}
		return vec, true
	default:
		return nil, false
	}
}

func vecArgs(name string, args []driver.Value) (a, b []float32, ok bool, err error) {
	if len(args) != 2 {
		return nil, nil, false, fmt.Errorf("%s: expected 2 arguments, got %d", name, len(args))
	}
	if a, ok = asVector(args[0]); !ok {
		return nil, nil, false, nil
	}
	if b, ok = asVector(args[1]); !ok {
		return nil, nil, false, nil
	}
	return a, b, true, nil
}

func vecCosineImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	a, b, ok, err := vecArgs("vec_cosine", args)
	if err != nil || !ok {
		return nil, err
	}
	sim, ok := Cosine(a, b)
	if !ok {
		return nil, nil
	}
	return sim, nil
}

func vecL2Impl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	a, b, ok, err := vecArgs("vec_l2", args)
	if err != nil || !ok {
		return nil, err
	}
	d, ok := L2(a, b)
	if !ok {
		return nil, nil
	}
	return d, nil
}
