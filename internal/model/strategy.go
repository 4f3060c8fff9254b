package model

import "fmt"

// StrategyKind tags how the angles of a usable record are converted.
type StrategyKind string

const (
	StrategyIdentity      StrategyKind = "identity"
	StrategySignFlip      StrategyKind = "sign_flip"
	StrategyFullRecompute StrategyKind = "full_recompute"
)

// StrategyKinds lists every kind in report order.
func StrategyKinds() []StrategyKind {
	return []StrategyKind{StrategyIdentity, StrategySignFlip, StrategyFullRecompute}
}

// Axes names the local axis pointing along each ISB direction, e.g. "+x".
type Axes struct {
	AnteroPosterior string `json:"anteroposterior" yaml:"anteroposterior"`
	InferoSuperior  string `json:"inferosuperior" yaml:"inferosuperior"`
	MedioLateral    string `json:"mediolateral" yaml:"mediolateral"`
}

// Strategy is the conversion bound to a usable record, as reported.
type Strategy struct {
	Kind             StrategyKind `json:"kind" yaml:"kind"`
	Signs            [3]float64   `json:"signs" yaml:"signs,flow"` // SignFlip only
	From             string       `json:"from" yaml:"from"`        // Reported Euler order
	To               string       `json:"to" yaml:"to"`            // ISB Euler order
	Parent           Axes         `json:"parent" yaml:"parent"`
	Child            Axes         `json:"child" yaml:"child"`
	ParentCorrection string       `json:"parent_correction,omitempty" yaml:"parent_correction,omitempty"`
	ChildCorrection  string       `json:"child_correction,omitempty" yaml:"child_correction,omitempty"`
	Flip             bool         `json:"flip,omitempty" yaml:"flip,omitempty"` // Second decomposition
}

func (s Strategy) String() string {
	switch s.Kind {
	case StrategySignFlip:
		return fmt.Sprintf("sign_flip(%g, %g, %g)", s.Signs[0], s.Signs[1], s.Signs[2])
	case StrategyFullRecompute:
		return fmt.Sprintf("full_recompute(%s -> %s, parent=%q, child=%q)", s.From, s.To, s.ParentCorrection, s.ChildCorrection)
	}
	return string(s.Kind)
}
