package axis

import (
	"fmt"
	"strings"
)

// Anatomical names one of the three ISB reference directions.
type Anatomical int8

const (
	AnteroPosterior Anatomical = iota + 1 // +X in ISB
	InferoSuperior                        // +Y in ISB
	MedioLateral                          // +Z in ISB
)

func (a Anatomical) String() string {
	switch a {
	case AnteroPosterior:
		return "anteroposterior"
	case InferoSuperior:
		return "inferosuperior"
	case MedioLateral:
		return "mediolateral"
	}
	return "unknown"
}

// ISB returns the ISB axis carrying this direction.
func (a Anatomical) ISB() SignedAxis {
	switch a {
	case AnteroPosterior:
		return PlusX
	case InferoSuperior:
		return PlusY
	case MedioLateral:
		return PlusZ
	}
	return Invalid
}

// Direction is an anatomical direction with a sign, as reported for one
// local axis by a source study.
type Direction struct {
	Anatomical Anatomical
	Sign       float64
}

func (d Direction) String() string {
	if d.Sign < 0 {
		return "-" + d.Anatomical.String()
	}
	return "+" + d.Anatomical.String()
}

// Valid reports whether d names a direction with a non-zero sign.
func (d Direction) Valid() bool {
	return d.Anatomical >= AnteroPosterior && d.Anatomical <= MedioLateral && d.Sign != 0
}

// ParseDirection accepts "+anteroposterior", "-Medio-Lateral",
// "PlusInferoSuperior" and similar dataset spellings.
func ParseDirection(s string) (Direction, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	t = strings.NewReplacer("-", "", "_", "", " ", "").Replace(t)
	sign := 1.0
	raw := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(raw, "-"):
		sign = -1
	case strings.HasPrefix(t, "plus"):
		t = t[4:]
	case strings.HasPrefix(t, "minus"):
		t, sign = t[5:], -1
	}
	t = strings.TrimPrefix(t, "+")

	var a Anatomical
	switch t {
	case "anteroposterior", "ap":
		a = AnteroPosterior
	case "inferosuperior", "is":
		a = InferoSuperior
	case "mediolateral", "ml":
		a = MedioLateral
	default:
		return Direction{}, fmt.Errorf("invalid anatomical direction %q", s)
	}
	return Direction{Anatomical: a, Sign: sign}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("marshal invalid direction")
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
