package model

// Stage is a state of the per-record consistency check.
type Stage string

const (
	StageUnchecked        Stage = "unchecked"
	StageSegmentsValid    Stage = "segments_valid"
	StageJointValid       Stage = "joint_valid"
	StageSegmentsAssigned Stage = "segments_assigned"
	StageCorrectionsValid Stage = "corrections_valid"
	StageStrategyBound    Stage = "strategy_bound"
	StageRejected         Stage = "rejected"
)

// Reason explains why a record was rejected.
type Reason string

const (
	ReasonNone                     Reason = ""
	ReasonInvalidFrame             Reason = "invalid frame"
	ReasonIndirectFrame            Reason = "indirect frame"
	ReasonInconsistentISBFlag      Reason = "declared ISB status contradicts frame"
	ReasonNoKinematicData          Reason = "no euler sequence or translation"
	ReasonInvalidSequence          Reason = "invalid euler sequence"
	ReasonInvalidTranslation       Reason = "invalid translation reference"
	ReasonUnsupportedJoint         Reason = "unsupported joint type"
	ReasonJointPairing             Reason = "parent/child pairing mismatch"
	ReasonMissingSegment           Reason = "joint segment not described"
	ReasonUnknownCorrection        Reason = "unknown correction"
	ReasonMissingScapulaCorrection Reason = "missing scapula correction"
	ReasonMissingToISB             Reason = "missing to_isb correction"
	ReasonMissingToISBLike         Reason = "missing to_isb_like correction"
	ReasonExtraneousCorrection     Reason = "extraneous correction"
	ReasonUnresolvedBranch         Reason = "unresolved consistency branch"
	ReasonNoRotationData           Reason = "no rotation data"
	ReasonAsymmetricOrientation    Reason = "asymmetric parent/child orientation"
	ReasonNonConvertible           Reason = "non-convertible sequence"
)

// Verdict is the outcome of checking one record.
type Verdict struct {
	Index              int          `json:"index" yaml:"index"`                                 // Position in the input
	RecordID           string       `json:"record_id,omitempty" yaml:"record_id,omitempty"`
	Source             string       `json:"source,omitempty" yaml:"source,omitempty"`
	Joint              string       `json:"joint,omitempty" yaml:"joint,omitempty"`
	Stage              Stage        `json:"stage" yaml:"stage"`                                 // Last state reached
	FailedAt           Stage        `json:"failed_at,omitempty" yaml:"failed_at,omitempty"`     // State that could not be reached
	Usable             bool         `json:"usable" yaml:"usable"`
	Strategy           *Strategy    `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Reason             Reason       `json:"reason,omitempty" yaml:"reason,omitempty"`
	Detail             string       `json:"detail,omitempty" yaml:"detail,omitempty"`           // Expected vs detected
	Limitations        []string     `json:"limitations,omitempty" yaml:"limitations,omitempty"` // Tolerated deviations
	HasRotationData    bool         `json:"has_rotation_data" yaml:"has_rotation_data"`
	HasTranslationData bool         `json:"has_translation_data" yaml:"has_translation_data"`
	TranslationUsable  bool         `json:"translation_usable" yaml:"translation_usable"`
	Corrected          [][3]float64 `json:"corrected,omitempty" yaml:"corrected,omitempty"`     // Samples in ISB angles
}

// Rejected reports whether the record was rejected.
func (v Verdict) Rejected() bool {
	return v.Stage == StageRejected
}
