// Package euler holds Euler orders, joint conventions, and the rotation
// matrix composition and decomposition used by the conversion engine.
package euler

import (
	"fmt"
	"strings"
)

// Sequence is an intrinsic Euler rotation order such as "yxz".
// The empty Sequence means no order was reported.
type Sequence string

const (
	XYX Sequence = "xyx"
	XZX Sequence = "xzx"
	YXY Sequence = "yxy"
	YZY Sequence = "yzy"
	ZXZ Sequence = "zxz"
	ZYZ Sequence = "zyz"
	XYZ Sequence = "xyz"
	XZY Sequence = "xzy"
	YXZ Sequence = "yxz"
	YZX Sequence = "yzx"
	ZXY Sequence = "zxy"
	ZYX Sequence = "zyx"
)

var sequences = []Sequence{XYX, XZX, YXY, YZY, ZXZ, ZYZ, XYZ, XZY, YXZ, YZX, ZXY, ZYX}

// Sequences returns the twelve valid orders, proper Euler first.
func Sequences() []Sequence {
	out := make([]Sequence, len(sequences))
	copy(out, sequences)
	return out
}

// ParseSequence accepts any case. Empty input and "nan" return the empty
// Sequence without error.
func ParseSequence(s string) (Sequence, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "" || t == "nan" {
		return "", nil
	}
	seq := Sequence(t)
	if !seq.Valid() {
		return "", fmt.Errorf("invalid euler sequence %q", s)
	}
	return seq, nil
}

// Valid reports whether s is one of the twelve orders.
func (s Sequence) Valid() bool {
	for _, candidate := range sequences {
		if s == candidate {
			return true
		}
	}
	return false
}

// Axes returns the letter index (0 = x) of each rotation.
func (s Sequence) Axes() [3]int {
	var out [3]int
	for i := 0; i < 3 && i < len(s); i++ {
		out[i] = int(s[i] - 'x')
	}
	return out
}

// IsProper reports whether the first and third axes coincide (e.g. zxz).
func (s Sequence) IsProper() bool {
	return len(s) == 3 && s[0] == s[2]
}

// IsTaitBryan reports whether the three axes are distinct (e.g. xyz).
func (s Sequence) IsTaitBryan() bool {
	return len(s) == 3 && s[0] != s[1] && s[1] != s[2] && s[0] != s[2]
}

func (s Sequence) String() string {
	return string(s)
}
