package engine

import (
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/viant/vec/search"
	sqlite "modernc.org/sqlite"
)

var registerOnce sync.Once

// RegisterDistanceFunctions registers knn_l2 and knn_dim with the driver so
// they are available on new connections opened after this call. Existing
// open connections will not see the functions.
//
//	knn_l2(a BLOB, b BLOB) REAL  -- Euclidean distance, NULL if either side is NULL
//	knn_dim(a BLOB) INTEGER      -- number of float32 components
func RegisterDistanceFunctions() error {
	var err error
	registerOnce.Do(func() {
		if err = sqlite.RegisterDeterministicScalarFunction("knn_l2", 2, l2Impl); err != nil {
			return
		}
		err = sqlite.RegisterDeterministicScalarFunction("knn_dim", 1, dimImpl)
	})
	return err
}

func asFeatures(arg driver.Value) ([]float32, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		return decodeFeatures(v)
	default:
		return nil, fmt.Errorf("knn: unsupported argument type %T for features; want BLOB", arg)
	}
}

func l2Impl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("knn_l2: expected 2 arguments, got %d", len(args))
	}
	a, err := asFeatures(args[0])
	if err != nil {
		return nil, err
	}
	b, err := asFeatures(args[1])
	if err != nil {
		return nil, err
	}
	if a == nil || b == nil {
		return nil, nil
	}
	if len(a) != len(b) {
		return nil, fmt.Errorf("knn_l2: dimension mismatch %d vs %d", len(a), len(b))
	}
	return float64(search.Float32s(a).EuclideanDistance(b)), nil
}

func dimImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("knn_dim: expected 1 argument, got %d", len(args))
	}
	v, err := asFeatures(args[0])
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return int64(len(v)), nil
}

// Local minimal decoder to avoid import cycles in tests.
func decodeFeatures(b []byte) ([]float32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("knn: invalid features blob length %d", len(b))
	}
	n := len(b) / 4
	v := make([]float32, n)
	for i := 0; i < n; i++ {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}
