package knn

import (
	"fmt"
	"strings"
)

// Strategy selects the algorithm used to compute the distance matrix. The
// numeric value is the number of explicit loops the algorithm runs.
type Strategy int

const (
	// ZeroLoop computes the whole matrix with matrix algebra. It is the zero
	// value and therefore the default.
	ZeroLoop Strategy = iota
	// OneLoop iterates over queries and broadcasts each one against all training rows.
	OneLoop
	// TwoLoop iterates over every (query, train) pair.
	TwoLoop
)

// Strategies lists every recognized strategy.
var Strategies = []Strategy{ZeroLoop, OneLoop, TwoLoop}

func (s Strategy) String() string {
	switch s {
	case ZeroLoop:
		return "zero-loop"
	case OneLoop:
		return "one-loop"
	case TwoLoop:
		return "two-loop"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Valid reports whether s is one of the recognized strategies.
func (s Strategy) Valid() bool {
	return s == ZeroLoop || s == OneLoop || s == TwoLoop
}

// ParseStrategy resolves a strategy name. Both the names returned by String
// and the loop counts "0", "1", "2" are accepted.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "zero-loop", "zeroloop", "no-loop", "vectorized", "0", "":
		return ZeroLoop, nil
	case "one-loop", "oneloop", "1":
		return OneLoop, nil
	case "two-loop", "twoloop", "two-loops", "2":
		return TwoLoop, nil
	}
	return 0, fmt.Errorf("knn: unknown strategy %q: %w", name, ErrInvalidArgument)
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, &ErrInvalidStrategy{Strategy: s}
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
