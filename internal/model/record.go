package model

import "strings"

// Record is one dataset row: a joint reported by one study, with the frames
// of the segments it involves.
type Record struct {
	ID                 string                  `json:"id" yaml:"id"`                                     // Stable row identifier
	Source             string                  `json:"article_author_year" yaml:"article_author_year"`   // Citing study
	Joint              string                  `json:"joint" yaml:"joint"`                               // Joint name or code (GH, ST, ...)
	Parent             string                  `json:"parent" yaml:"parent"`                             // Parent segment
	Child              string                  `json:"child" yaml:"child"`                               // Child segment
	EulerSequence      string                  `json:"euler_sequence,omitempty" yaml:"euler_sequence,omitempty"`
	DisplacementOrigin string                  `json:"origin_displacement,omitempty" yaml:"origin_displacement,omitempty"`
	DisplacementFrame  string                  `json:"displacement_cs,omitempty" yaml:"displacement_cs,omitempty"`
	ThoraxIsGlobal     bool                    `json:"thorax_is_global,omitempty" yaml:"thorax_is_global,omitempty"`
	Segments           map[string]SegmentEntry `json:"segments" yaml:"segments"`                        // Keyed by segment name
	Samples            [][3]float64            `json:"samples,omitempty" yaml:"samples,omitempty"`      // Reported angles, radians
}

// SegmentEntry is the frame description a study gives for one segment.
type SegmentEntry struct {
	X           string   `json:"x" yaml:"x"`                                                   // Anatomical direction of local x
	Y           string   `json:"y" yaml:"y"`                                                   // Anatomical direction of local y
	Z           string   `json:"z" yaml:"z"`                                                   // Anatomical direction of local z
	Origin      string   `json:"origin,omitempty" yaml:"origin,omitempty"`                     // Origin landmark
	IsISB       bool     `json:"is_isb" yaml:"is_isb"`                                         // Declared ISB compliance
	Correctable *bool    `json:"is_isb_correctable,omitempty" yaml:"is_isb_correctable,omitempty"` // Unset when not assessed
	Corrections []string `json:"corrections,omitempty" yaml:"corrections,omitempty"`
}

// Empty reports whether the study left the segment undescribed.
func (s SegmentEntry) Empty() bool {
	return missing(s.X) && missing(s.Y) && missing(s.Z) && missing(s.Origin)
}

// NotCorrectable reports whether the study explicitly flagged the segment as
// not correctable.
func (s SegmentEntry) NotCorrectable() bool {
	return s.Correctable != nil && !*s.Correctable
}

// HasRotationData reports whether an Euler sequence was reported.
func (r Record) HasRotationData() bool {
	return !missing(r.EulerSequence)
}

// HasTranslationData reports whether both displacement origin and frame were reported.
func (r Record) HasTranslationData() bool {
	return !missing(r.DisplacementOrigin) && !missing(r.DisplacementFrame)
}

// Label identifies the record in logs and reports.
func (r Record) Label() string {
	switch {
	case r.ID != "" && r.Source != "":
		return r.ID + " (" + r.Source + ")"
	case r.ID != "":
		return r.ID
	}
	return r.Source
}

func missing(s string) bool {
	t := strings.ToLower(strings.TrimSpace(s))
	return t == "" || t == "nan"
}
