// Package axis defines the signed axis and anatomical direction vocabulary
// shared by every frame and rotation computation.
package axis

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// SignedAxis is one of the six unit axes of a right-handed local frame.
type SignedAxis int8

const (
	Invalid SignedAxis = iota
	PlusX
	PlusY
	PlusZ
	MinusX
	MinusY
	MinusZ
)

var letters = [3]string{"x", "y", "z"}

// FromIndex returns the axis with the given letter index (0 = x) and sign.
func FromIndex(index int, sign float64) SignedAxis {
	if index < 0 || index > 2 || sign == 0 {
		return Invalid
	}
	a := SignedAxis(index + 1)
	if sign < 0 {
		a += 3
	}
	return a
}

// Valid reports whether a is one of the six axes.
func (a SignedAxis) Valid() bool {
	return a >= PlusX && a <= MinusZ
}

// Index returns the letter index of the axis regardless of sign.
func (a SignedAxis) Index() int {
	if !a.Valid() {
		return -1
	}
	return int(a-1) % 3
}

// Sign returns +1 or -1.
func (a SignedAxis) Sign() float64 {
	switch {
	case a >= PlusX && a <= PlusZ:
		return 1
	case a >= MinusX && a <= MinusZ:
		return -1
	}
	return 0
}

// Neg returns the antiparallel axis.
func (a SignedAxis) Neg() SignedAxis {
	if !a.Valid() {
		return Invalid
	}
	return FromIndex(a.Index(), -a.Sign())
}

// Vector returns the unit vector of the axis.
func (a SignedAxis) Vector() r3.Vec {
	var v r3.Vec
	switch a.Index() {
	case 0:
		v.X = a.Sign()
	case 1:
		v.Y = a.Sign()
	case 2:
		v.Z = a.Sign()
	}
	return v
}

// Letter returns "x", "y" or "z".
func (a SignedAxis) Letter() string {
	if !a.Valid() {
		return "?"
	}
	return letters[a.Index()]
}

func (a SignedAxis) String() string {
	if !a.Valid() {
		return "invalid"
	}
	if a.Sign() < 0 {
		return "-" + a.Letter()
	}
	return "+" + a.Letter()
}

// Parse accepts "+x", "-Y", "z" and the "PlusX"/"MinusZ" spellings.
func Parse(s string) (SignedAxis, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	sign := 1.0
	switch {
	case strings.HasPrefix(t, "plus"):
		t = t[4:]
	case strings.HasPrefix(t, "minus"):
		t, sign = t[5:], -1
	case strings.HasPrefix(t, "+"):
		t = t[1:]
	case strings.HasPrefix(t, "-"):
		t, sign = t[1:], -1
	}
	for i, l := range letters {
		if t == l {
			return FromIndex(i, sign), nil
		}
	}
	return Invalid, fmt.Errorf("invalid signed axis %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a SignedAxis) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("marshal invalid axis")
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *SignedAxis) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
