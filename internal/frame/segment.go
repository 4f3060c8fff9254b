package frame

import (
	"fmt"
	"strings"
)

// Segment identifies a body segment of the shoulder complex.
type Segment string

const (
	Thorax   Segment = "thorax"
	Clavicle Segment = "clavicle"
	Scapula  Segment = "scapula"
	Humerus  Segment = "humerus"
)

// Segments lists every segment in dataset column order.
func Segments() []Segment {
	return []Segment{Thorax, Clavicle, Scapula, Humerus}
}

// ParseSegment accepts the segment names used by the dataset, case-insensitively.
func ParseSegment(s string) (Segment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "thorax":
		return Thorax, nil
	case "clavicle":
		return Clavicle, nil
	case "scapula":
		return Scapula, nil
	case "humerus":
		return Humerus, nil
	}
	return "", fmt.Errorf("unknown segment %q", s)
}

// Landmark is an anatomical point used as a frame origin.
type Landmark string

// LandmarkUnknown marks an origin the source study did not report.
const LandmarkUnknown Landmark = ""

const (
	SN                  Landmark = "SN"
	T7                  Landmark = "T7"
	IJ                  Landmark = "IJ"
	T1AnteriorFace      Landmark = "T1 anterior face"
	C7                  Landmark = "C7"
	T8                  Landmark = "T8"
	PX                  Landmark = "PX"
	SCJC                Landmark = "SCJC"
	MTC                 Landmark = "MTC"
	ClavicleCustom      Landmark = "CUSTOM"
	ACJC                Landmark = "ACJC"
	AA                  Landmark = "AA"
	GC                  Landmark = "GC"
	TS                  Landmark = "TS"
	AI                  Landmark = "AI"
	GH                  Landmark = "GH"
	MidpointEpicondyles Landmark = "midpoint epicondyles"
)

var segmentLandmarks = map[Segment][]Landmark{
	Thorax:   {SN, T7, IJ, T1AnteriorFace, C7, T8, PX},
	Clavicle: {SCJC, MTC, ClavicleCustom, ACJC},
	Scapula:  {AA, GC, ACJC, TS, AI},
	Humerus:  {GH, MidpointEpicondyles},
}

var isbOrigins = map[Segment]Landmark{
	Thorax:   IJ,
	Clavicle: SCJC,
	Scapula:  AA,
	Humerus:  GH,
}

// on-axis landmarks besides the ISB origin itself
var onISBAxis = map[Segment][]Landmark{
	Thorax:   {C7, T8, PX},
	Clavicle: {ACJC},
	Scapula:  {TS, AI},
	Humerus:  {MidpointEpicondyles},
}

var landmarkAliases = map[string]Landmark{
	"sn":               SN,
	"t7":               T7,
	"ij":               IJ,
	"t1 anterior face": T1AnteriorFace,
	"c7":               C7,
	"t8":               T8,
	"px":               PX,
	"sc":               SCJC,
	"scjc":             SCJC,
	"mtc":              MTC,
	"volume centroid of a cylinder mapped to the midthird of the clavicle": MTC,
	"custom":          ClavicleCustom,
	"clavicle origin": ClavicleCustom,
	"point of intersection between the mesh model and the zc axis": ClavicleCustom,
	"ac":                   ACJC,
	"acjc":                 ACJC,
	"aa":                   AA,
	"gc":                   GC,
	"glenoid center":       GC,
	"ts":                   TS,
	"ai":                   AI,
	"gh":                   GH,
	"midpoint em el":       MidpointEpicondyles,
	"midpoint epicondyles": MidpointEpicondyles,
}

// ParseLandmark maps a dataset origin string to a Landmark. Empty strings and
// "nan" yield LandmarkUnknown.
func ParseLandmark(s string) (Landmark, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "" || t == "nan" {
		return LandmarkUnknown, nil
	}
	if l, ok := landmarkAliases[t]; ok {
		return l, nil
	}
	return LandmarkUnknown, fmt.Errorf("unknown origin landmark %q", s)
}

// BelongsTo reports whether l is a valid origin for seg. LandmarkUnknown
// belongs to every segment.
func (l Landmark) BelongsTo(seg Segment) bool {
	if l == LandmarkUnknown {
		return true
	}
	for _, candidate := range segmentLandmarks[seg] {
		if candidate == l {
			return true
		}
	}
	return false
}

// ISBOrigin returns the canonical ISB origin of seg.
func ISBOrigin(seg Segment) Landmark {
	return isbOrigins[seg]
}
