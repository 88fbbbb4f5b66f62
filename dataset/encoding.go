package dataset

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeFeatures encodes a feature vector into a BLOB suitable for storage in
// SQLite. The encoding is a little-endian sequence of IEEE 754 float32 values
// without a length prefix; the length is derived from the BLOB size on
// decode. Values are narrowed to float32, which is also the precision of the
// knn_l2 SQL function.
func EncodeFeatures(vec []float64) ([]byte, error) {
	if len(vec) == 0 {
		return nil, nil
	}
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		f := float32(v)
		if math.IsInf(float64(f), 0) && !math.IsInf(v, 0) {
			return nil, fmt.Errorf("dataset: feature %d (%g) overflows float32", i, v)
		}
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return b, nil
}

// DecodeFeatures decodes a BLOB produced by EncodeFeatures.
func DecodeFeatures(b []byte) ([]float64, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("dataset: invalid features blob length %d (not multiple of 4)", len(b))
	}
	n := len(b) / 4
	vec := make([]float64, n)
	for i := 0; i < n; i++ {
		vec[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:])))
	}
	return vec, nil
}
