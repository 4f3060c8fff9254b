// Package frame models a segment's local coordinate frame and classifies it
// against the ISB reference frame.
package frame

import (
	"fmt"
	"math"

	"github.com/ppiankov/isbalign/internal/axis"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// InvalidFrameError reports a degenerate axis assignment or origin.
type InvalidFrameError struct {
	Segment Segment
	Reason  string
}

func (e *InvalidFrameError) Error() string {
	return fmt.Sprintf("invalid %s frame: %s", e.Segment, e.Reason)
}

// Orientation gives, for each ISB direction, the local axis pointing along it.
type Orientation struct {
	AnteroPosterior axis.SignedAxis `json:"anteroposterior" yaml:"anteroposterior"` // local axis pointing anterior
	InferoSuperior  axis.SignedAxis `json:"inferosuperior" yaml:"inferosuperior"`   // local axis pointing superior
	MedioLateral    axis.SignedAxis `json:"mediolateral" yaml:"mediolateral"`       // local axis pointing lateral
}

// ISB is the orientation of any ISB-compliant frame.
var ISB = Orientation{
	AnteroPosterior: axis.PlusX,
	InferoSuperior:  axis.PlusY,
	MedioLateral:    axis.PlusZ,
}

func (o Orientation) axes() [3]axis.SignedAxis {
	return [3]axis.SignedAxis{o.AnteroPosterior, o.InferoSuperior, o.MedioLateral}
}

func (o Orientation) String() string {
	return fmt.Sprintf("(%s, %s, %s)", o.AnteroPosterior, o.InferoSuperior, o.MedioLateral)
}

func (o Orientation) validate() string {
	var seen [3]bool
	for _, a := range o.axes() {
		if !a.Valid() {
			return "axis not assigned"
		}
		if seen[a.Index()] {
			return fmt.Sprintf("axis %s used twice in %s", a.Letter(), o)
		}
		seen[a.Index()] = true
	}
	return ""
}

// Matrix returns R such that v_isb = R · v_local. Row i holds the local
// components of ISB axis i.
func (o Orientation) Matrix() *mat.Dense {
	r := mat.NewDense(3, 3, nil)
	for i, a := range o.axes() {
		v := a.Vector()
		r.SetRow(i, []float64{v.X, v.Y, v.Z})
	}
	return r
}

// Handedness is the triple product ap · (is × ml); +1 for a right-handed frame.
func (o Orientation) Handedness() float64 {
	return r3.Dot(o.AnteroPosterior.Vector(), r3.Cross(o.InferoSuperior.Vector(), o.MedioLateral.Vector()))
}

// Frame is a segment's local coordinate frame. Build it with New or
// FromDirections; the zero value is not valid.
type Frame struct {
	Segment     Segment     `json:"segment" yaml:"segment"`
	Orientation Orientation `json:"orientation" yaml:"orientation"`
	Origin      Landmark    `json:"origin,omitempty" yaml:"origin,omitempty"`
}

// New builds a frame from the local axes carrying each ISB direction.
func New(seg Segment, ap, is, ml axis.SignedAxis, origin Landmark) (Frame, error) {
	f := Frame{
		Segment:     seg,
		Orientation: Orientation{AnteroPosterior: ap, InferoSuperior: is, MedioLateral: ml},
		Origin:      origin,
	}
	if _, ok := segmentLandmarks[seg]; !ok {
		return Frame{}, &InvalidFrameError{Segment: seg, Reason: "unknown segment"}
	}
	if reason := f.Orientation.validate(); reason != "" {
		return Frame{}, &InvalidFrameError{Segment: seg, Reason: reason}
	}
	if !origin.BelongsTo(seg) {
		return Frame{}, &InvalidFrameError{Segment: seg, Reason: fmt.Sprintf("origin %q is not a %s landmark", origin, seg)}
	}
	return f, nil
}

// FromDirections builds a frame from the anatomical direction reported for
// each local axis x, y and z.
func FromDirections(seg Segment, x, y, z axis.Direction, origin Landmark) (Frame, error) {
	var assigned [3]axis.SignedAxis
	for i, d := range []axis.Direction{x, y, z} {
		if !d.Valid() {
			return Frame{}, &InvalidFrameError{Segment: seg, Reason: fmt.Sprintf("local axis %s has no direction", axis.FromIndex(i, 1).Letter())}
		}
		slot := int(d.Anatomical) - 1
		if assigned[slot].Valid() {
			return Frame{}, &InvalidFrameError{Segment: seg, Reason: fmt.Sprintf("direction %s reported twice", d.Anatomical)}
		}
		assigned[slot] = axis.FromIndex(i, d.Sign)
	}
	return New(seg, assigned[0], assigned[1], assigned[2], origin)
}

// RotationMatrix returns the local to ISB rotation matrix.
func (f Frame) RotationMatrix() *mat.Dense {
	return f.Orientation.Matrix()
}

// IsDirect reports whether the frame is right-handed, det(R) = +1.
func (f Frame) IsDirect() bool {
	return math.Abs(mat.Det(f.RotationMatrix())-1) < 1e-9
}

// IsISBOriented reports whether the axes are exactly +X, +Y, +Z.
func (f Frame) IsISBOriented() bool {
	return f.Orientation == ISB
}

// IsISBOrigin reports whether the origin is the segment's canonical ISB origin.
func (f Frame) IsISBOrigin() bool {
	return f.Origin != LandmarkUnknown && f.Origin == isbOrigins[f.Segment]
}

// IsOnISBAxis reports whether the origin lies on an ISB axis of the segment.
func (f Frame) IsOnISBAxis() bool {
	if f.IsISBOrigin() {
		return true
	}
	for _, l := range onISBAxis[f.Segment] {
		if l == f.Origin {
			return true
		}
	}
	return false
}

// IsISB reports whether both orientation and origin follow ISB.
func (f Frame) IsISB() bool {
	return f.IsISBOriented() && f.IsISBOrigin()
}

func (f Frame) String() string {
	origin := string(f.Origin)
	if origin == "" {
		origin = "unknown"
	}
	return fmt.Sprintf("%s %s @ %s", f.Segment, f.Orientation, origin)
}

// Valid reports whether the three axes are assigned to distinct letters.
func (o Orientation) Valid() bool {
	return o.validate() == ""
}
