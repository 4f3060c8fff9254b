package euler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/isbalign/internal/frame"
)

// ErrUnsupportedJointType is returned for joints outside the shoulder complex.
var ErrUnsupportedJointType = errors.New("unsupported joint type")

// JointType is one of the five shoulder joints.
type JointType string

const (
	GlenoHumeral      JointType = "glenohumeral"
	ScapuloThoracic   JointType = "scapulothoracic"
	AcromioClavicular JointType = "acromioclavicular"
	SternoClavicular  JointType = "sternoclavicular"
	ThoracoHumeral    JointType = "thoracohumeral"
)

type jointDef struct {
	isb           Sequence
	parent, child frame.Segment
}

var joints = map[JointType]jointDef{
	GlenoHumeral:      {YXY, frame.Scapula, frame.Humerus},
	ScapuloThoracic:   {YXZ, frame.Thorax, frame.Scapula},
	AcromioClavicular: {YXZ, frame.Clavicle, frame.Scapula},
	SternoClavicular:  {YXZ, frame.Thorax, frame.Clavicle},
	ThoracoHumeral:    {YXY, frame.Thorax, frame.Humerus},
}

var jointCodes = map[string]JointType{
	"gh": GlenoHumeral,
	"st": ScapuloThoracic,
	"ac": AcromioClavicular,
	"sc": SternoClavicular,
	"th": ThoracoHumeral,
}

// JointTypes lists the supported joints.
func JointTypes() []JointType {
	return []JointType{GlenoHumeral, ScapuloThoracic, AcromioClavicular, SternoClavicular, ThoracoHumeral}
}

// ParseJointType accepts full names ("glenohumeral") and codes ("GH").
func ParseJointType(s string) (JointType, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	if jt, ok := jointCodes[t]; ok {
		return jt, nil
	}
	if _, ok := joints[JointType(t)]; ok {
		return JointType(t), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedJointType, s)
}

// ISBSequence returns the canonical ISB order of the joint.
func (j JointType) ISBSequence() Sequence {
	return joints[j].isb
}

// Segments returns the parent and child segments the joint connects.
func (j JointType) Segments() (parent, child frame.Segment) {
	def := joints[j]
	return def.parent, def.child
}

// JointSpec pairs a joint with the Euler order its angles were reported in.
type JointSpec struct {
	Type     JointType
	Sequence Sequence // empty when only translations were reported
}

// HasSequence reports whether a rotation order was reported.
func (s JointSpec) HasSequence() bool {
	return s.Sequence != ""
}

// MatchesISBSequence reports whether the reported order is the ISB order.
func (s JointSpec) MatchesISBSequence() bool {
	return s.HasSequence() && s.Sequence == s.Type.ISBSequence()
}

// IsSignFlipConvertible is a necessary condition for a SignFlip strategy:
// a Tait-Bryan ISB order needs three distinct letters, a proper Euler ISB
// order needs the first and third letters to match.
func (s JointSpec) IsSignFlipConvertible() bool {
	if !s.HasSequence() {
		return false
	}
	isb := s.Type.ISBSequence()
	switch {
	case isb.IsTaitBryan():
		return s.Sequence.IsTaitBryan()
	case isb.IsProper():
		return s.Sequence.IsProper()
	}
	return false
}

// CheckPairing verifies the reported parent and child segments.
func (s JointSpec) CheckPairing(parent, child frame.Segment) error {
	def, ok := joints[s.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedJointType, s.Type)
	}
	if parent != def.parent || child != def.child {
		return fmt.Errorf("%s joint expects %s -> %s, got %s -> %s", s.Type, def.parent, def.child, parent, child)
	}
	return nil
}
