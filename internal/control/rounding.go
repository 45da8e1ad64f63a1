package control

import (
	"fmt"
	"math"
	"strings"
)

// RoundingMode selects how the control output is turned into a movement.
type RoundingMode int

const (
	// RoundHalfEven rounds to the nearest integer, ties to even.
	RoundHalfEven RoundingMode = iota
	// RoundHalfAway rounds to the nearest integer, ties away from zero.
	RoundHalfAway
	// RoundNone moves by the raw control output.
	RoundNone
)

var roundingNames = map[RoundingMode]string{
	RoundHalfEven: "even",
	RoundHalfAway: "nearest",
	RoundNone:     "none",
}

func (m RoundingMode) String() string {
	if name, ok := roundingNames[m]; ok {
		return name
	}
	return fmt.Sprintf("RoundingMode(%d)", int(m))
}

func (m RoundingMode) Apply(v float64) float64 {
	switch m {
	case RoundHalfAway:
		return math.Round(v)
	case RoundNone:
		return v
	default:
		return math.RoundToEven(v)
	}
}

// ParseRoundingMode accepts the names produced by String. An empty name
// selects RoundHalfEven.
func ParseRoundingMode(name string) (RoundingMode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return RoundHalfEven, nil
	}
	for mode, n := range roundingNames {
		if n == name {
			return mode, nil
		}
	}
	return RoundHalfEven, fmt.Errorf("%w: %q", ErrUnknownRounding, name)
}

func (m RoundingMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *RoundingMode) UnmarshalText(text []byte) error {
	mode, err := ParseRoundingMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
