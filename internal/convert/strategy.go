package convert

import (
	"fmt"

	"github.com/ppiankov/isbalign/internal/euler"
	"github.com/ppiankov/isbalign/internal/frame"
	"gonum.org/v1/gonum/mat"
)

// Kind tags the variant of a Strategy.
type Kind string

const (
	Identity      Kind = "identity"
	SignFlip      Kind = "sign_flip"
	FullRecompute Kind = "full_recompute"
)

// Strategy converts angles reported in a study's frame and order into ISB
// angles. It is plain comparable data, derived once per record and applied
// to every sample.
type Strategy struct {
	Kind             Kind              `json:"kind" yaml:"kind"`
	Signs            [3]float64        `json:"signs" yaml:"signs,flow"`              // per-angle multiplier, SignFlip only
	From             euler.Sequence    `json:"from" yaml:"from"`                     // reported order
	To               euler.Sequence    `json:"to" yaml:"to"`                         // ISB order
	Parent           frame.Orientation `json:"parent" yaml:"parent"`                 // parent frame axes
	Child            frame.Orientation `json:"child" yaml:"child"`                   // child frame axes
	ParentCorrection Correction        `json:"parent_correction,omitempty" yaml:"parent_correction,omitempty"`
	ChildCorrection  Correction        `json:"child_correction,omitempty" yaml:"child_correction,omitempty"`
	Flip             bool              `json:"flip,omitempty" yaml:"flip,omitempty"` // use the second decomposition
}

// Apply converts one sample of reported angles, in radians.
func (s Strategy) Apply(a1, a2, a3 float64) (float64, float64, float64) {
	switch s.Kind {
	case SignFlip:
		return s.Signs[0] * a1, s.Signs[1] * a2, s.Signs[2] * a3
	case FullRecompute:
		r := toISB(s.Parent, s.Child, euler.Matrix(s.From, [3]float64{a1, a2, a3}), s.ParentCorrection, s.ChildCorrection)
		out := euler.Angles(r, s.To)
		if s.Flip {
			out = euler.Flip(out, s.To)
		}
		return out[0], out[1], out[2]
	}
	return a1, a2, a3
}

// ApplyAll converts a series of samples.
func (s Strategy) ApplyAll(samples [][3]float64) [][3]float64 {
	out := make([][3]float64, len(samples))
	for i, x := range samples {
		out[i][0], out[i][1], out[i][2] = s.Apply(x[0], x[1], x[2])
	}
	return out
}

func (s Strategy) String() string {
	switch s.Kind {
	case SignFlip:
		return fmt.Sprintf("sign_flip(%g, %g, %g)", s.Signs[0], s.Signs[1], s.Signs[2])
	case FullRecompute:
		return fmt.Sprintf("full_recompute(%s -> %s, parent=%q, child=%q)", s.From, s.To, s.ParentCorrection, s.ChildCorrection)
	}
	return string(s.Kind)
}

// toISB re-expresses the relative rotation r in the ISB frames of both
// segments, then applies the parent and child calibration matrices.
func toISB(parent, child frame.Orientation, r mat.Matrix, parentCorrection, childCorrection Correction) *mat.Dense {
	var tmp mat.Dense
	tmp.Mul(parent.Matrix(), r)
	out := new(mat.Dense)
	out.Mul(&tmp, child.Matrix().T())

	if k, ok := literature[childCorrection]; ok {
		next := new(mat.Dense)
		next.Mul(out, k.T())
		out = next
	}
	if k, ok := literature[parentCorrection]; ok {
		next := new(mat.Dense)
		next.Mul(k, out)
		out = next
	}
	return out
}
