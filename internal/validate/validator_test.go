package validate

import (
	"testing"

	"github.com/ppiankov/isbalign/internal/convert"
	"github.com/ppiankov/isbalign/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func isbEntry(origin string) model.SegmentEntry {
	return model.SegmentEntry{
		X:      "+anteroposterior",
		Y:      "+inferosuperior",
		Z:      "+mediolateral",
		Origin: origin,
		IsISB:  true,
	}
}

// anterior on x, lateral on -y, superior on z
func rotatedEntry(origin string, corrections ...string) model.SegmentEntry {
	return model.SegmentEntry{
		X:           "+anteroposterior",
		Y:           "-mediolateral",
		Z:           "+inferosuperior",
		Origin:      origin,
		Corrections: corrections,
	}
}

func boolPtr(b bool) *bool { return &b }

func glenohumeral() model.Record {
	return model.Record{
		ID:            "gh-1",
		Source:        "doe_2020",
		Joint:         "GH",
		Parent:        "scapula",
		Child:         "humerus",
		EulerSequence: "yxy",
		Segments: map[string]model.SegmentEntry{
			"scapula": isbEntry("AA"),
			"humerus": isbEntry("GH"),
		},
		Samples: [][3]float64{{0.1, 0.2, 0.3}},
	}
}

func scapulothoracic(scapula model.SegmentEntry) model.Record {
	return model.Record{
		ID:            "st-1",
		Joint:         "ST",
		Parent:        "thorax",
		Child:         "scapula",
		EulerSequence: "yxz",
		Segments: map[string]model.SegmentEntry{
			"thorax":  isbEntry("IJ"),
			"scapula": scapula,
		},
	}
}

func newValidator(t *testing.T) *Validator {
	return NewValidator(convert.NewEngine(convert.DefaultOptions()), zaptest.NewLogger(t))
}

func TestCheck_ISBRecordIsIdentity(t *testing.T) {
	v := newValidator(t).Check(3, glenohumeral())

	require.True(t, v.Usable, v.Detail)
	assert.Equal(t, 3, v.Index)
	assert.Equal(t, "gh-1", v.RecordID)
	assert.Equal(t, model.StageStrategyBound, v.Stage)
	assert.Empty(t, v.FailedAt)
	require.NotNil(t, v.Strategy)
	assert.Equal(t, model.StrategyIdentity, v.Strategy.Kind)
	assert.Equal(t, [][3]float64{{0.1, 0.2, 0.3}}, v.Corrected)
	assert.Empty(t, v.Limitations)
}

func TestCheck_AcromioclavicularSignFlip(t *testing.T) {
	rec := model.Record{
		Joint:         "AC",
		Parent:        "clavicle",
		Child:         "scapula",
		EulerSequence: "zxy",
		Segments: map[string]model.SegmentEntry{
			"clavicle": rotatedEntry("SCJC", "to_isb"),
			"scapula":  rotatedEntry("AA", "to_isb"),
		},
		Samples: [][3]float64{{0.1, -0.2, 0.3}},
	}

	v := newValidator(t).Check(0, rec)
	require.True(t, v.Usable, v.Detail)
	require.NotNil(t, v.Strategy)
	assert.Equal(t, model.StrategySignFlip, v.Strategy.Kind)
	assert.Equal(t, [3]float64{1, 1, -1}, v.Strategy.Signs)
	assert.Equal(t, "zxy", v.Strategy.From)
	assert.Equal(t, "yxz", v.Strategy.To)
	assert.Equal(t, model.Axes{AnteroPosterior: "+x", InferoSuperior: "+z", MedioLateral: "-y"}, v.Strategy.Child)
	assert.Equal(t, [][3]float64{{0.1, -0.2, -0.3}}, v.Corrected)
}

func TestCheck_GlenoidCentredScapula(t *testing.T) {
	scapula := isbEntry("GC")
	scapula.IsISB = false

	v := newValidator(t).Check(0, scapulothoracic(scapula))
	assert.True(t, v.Rejected())
	assert.Equal(t, model.StageCorrectionsValid, v.FailedAt)
	assert.Equal(t, model.ReasonMissingScapulaCorrection, v.Reason)
	assert.Nil(t, v.Strategy)

	scapula.Corrections = []string{"kolz_GC_to_PA"}
	v = newValidator(t).Check(0, scapulothoracic(scapula))
	require.True(t, v.Usable, v.Detail)
	assert.Equal(t, model.StrategyFullRecompute, v.Strategy.Kind)
	assert.Equal(t, string(convert.KolzGCToPA), v.Strategy.ChildCorrection)
	assert.Empty(t, v.Strategy.ParentCorrection)
}

func TestCheck_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*model.Record)
		failedAt model.Stage
		reason   model.Reason
	}{
		{
			name:     "unknown segment key",
			mutate:   func(r *model.Record) { r.Segments["pelvis"] = isbEntry("ASIS") },
			failedAt: model.StageSegmentsValid,
			reason:   model.ReasonInvalidFrame,
		},
		{
			name: "direction reported twice",
			mutate: func(r *model.Record) {
				e := r.Segments["humerus"]
				e.Y = "-anteroposterior"
				r.Segments["humerus"] = e
			},
			failedAt: model.StageSegmentsValid,
			reason:   model.ReasonInvalidFrame,
		},
		{
			name: "foreign origin",
			mutate: func(r *model.Record) {
				r.Segments["humerus"] = isbEntry("IJ")
			},
			failedAt: model.StageSegmentsValid,
			reason:   model.ReasonInvalidFrame,
		},
		{
			name: "left-handed frame",
			mutate: func(r *model.Record) {
				e := r.Segments["humerus"]
				e.Z = "-mediolateral"
				r.Segments["humerus"] = e
			},
			failedAt: model.StageSegmentsValid,
			reason:   model.ReasonIndirectFrame,
		},
		{
			name: "declared non-ISB but detected ISB",
			mutate: func(r *model.Record) {
				e := r.Segments["scapula"]
				e.IsISB = false
				r.Segments["scapula"] = e
			},
			failedAt: model.StageSegmentsValid,
			reason:   model.ReasonInconsistentISBFlag,
		},
		{
			name: "no kinematic data",
			mutate: func(r *model.Record) {
				r.EulerSequence = "nan"
			},
			failedAt: model.StageJointValid,
			reason:   model.ReasonNoKinematicData,
		},
		{
			name:     "unsupported joint",
			mutate:   func(r *model.Record) { r.Joint = "elbow" },
			failedAt: model.StageJointValid,
			reason:   model.ReasonUnsupportedJoint,
		},
		{
			name:     "invalid sequence",
			mutate:   func(r *model.Record) { r.EulerSequence = "xyq" },
			failedAt: model.StageJointValid,
			reason:   model.ReasonInvalidSequence,
		},
		{
			name: "invalid translation origin",
			mutate: func(r *model.Record) {
				r.DisplacementOrigin = "knee"
				r.DisplacementFrame = "scapula"
			},
			failedAt: model.StageJointValid,
			reason:   model.ReasonInvalidTranslation,
		},
		{
			name:     "pairing mismatch",
			mutate:   func(r *model.Record) { r.Parent = "thorax" },
			failedAt: model.StageJointValid,
			reason:   model.ReasonJointPairing,
		},
		{
			name:     "missing child frame",
			mutate:   func(r *model.Record) { delete(r.Segments, "humerus") },
			failedAt: model.StageSegmentsAssigned,
			reason:   model.ReasonMissingSegment,
		},
		{
			name: "unknown correction",
			mutate: func(r *model.Record) {
				e := r.Segments["scapula"]
				e.Corrections = []string{"meskers_1998"}
				r.Segments["scapula"] = e
			},
			failedAt: model.StageCorrectionsValid,
			reason:   model.ReasonUnknownCorrection,
		},
		{
			name: "correction on an ISB frame",
			mutate: func(r *model.Record) {
				e := r.Segments["scapula"]
				e.Corrections = []string{"to_isb"}
				r.Segments["scapula"] = e
			},
			failedAt: model.StageCorrectionsValid,
			reason:   model.ReasonExtraneousCorrection,
		},
		{
			name: "missing to_isb",
			mutate: func(r *model.Record) {
				r.Segments["humerus"] = rotatedEntry("GH")
			},
			failedAt: model.StageCorrectionsValid,
			reason:   model.ReasonMissingToISB,
		},
		{
			name: "parent and child differ",
			mutate: func(r *model.Record) {
				r.Segments["humerus"] = rotatedEntry("GH", "to_isb")
			},
			failedAt: model.StageStrategyBound,
			reason:   model.ReasonAsymmetricOrientation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := glenohumeral()
			tt.mutate(&rec)

			v := newValidator(t).Check(0, rec)
			assert.True(t, v.Rejected())
			assert.False(t, v.Usable)
			assert.Equal(t, tt.failedAt, v.FailedAt)
			assert.Equal(t, tt.reason, v.Reason, v.Detail)
			assert.NotEmpty(t, v.Detail)
			assert.Nil(t, v.Strategy)
		})
	}
}

func TestCheck_NotCorrectableToleratesISBFlag(t *testing.T) {
	for _, seg := range []string{"scapula", "humerus"} {
		t.Run(seg, func(t *testing.T) {
			rec := glenohumeral()
			e := rec.Segments[seg]
			e.IsISB = false
			e.Correctable = boolPtr(false)
			rec.Segments[seg] = e

			v := newValidator(t).Check(0, rec)
			require.True(t, v.Usable, v.Detail)
			require.Len(t, v.Limitations, 1)
			assert.Contains(t, v.Limitations[0], seg+" declared is_isb=false")
		})
	}
}

func TestCheck_ISBFlagMismatchRejected(t *testing.T) {
	tests := []struct {
		name        string
		segment     string
		correctable *bool
	}{
		{"scapula unassessed", "scapula", nil},
		{"scapula correctable", "scapula", boolPtr(true)},
		{"humerus unassessed", "humerus", nil},
		{"humerus correctable", "humerus", boolPtr(true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := glenohumeral()
			e := rec.Segments[tt.segment]
			e.IsISB = false
			e.Correctable = tt.correctable
			rec.Segments[tt.segment] = e

			v := newValidator(t).Check(0, rec)
			assert.False(t, v.Usable)
			assert.Equal(t, model.StageSegmentsValid, v.FailedAt)
			assert.Equal(t, model.ReasonInconsistentISBFlag, v.Reason, v.Detail)
			assert.Empty(t, v.Limitations)
		})
	}
}

func TestCheck_TranslationOnly(t *testing.T) {
	rec := glenohumeral()
	rec.EulerSequence = ""
	rec.DisplacementOrigin = "GH"
	rec.DisplacementFrame = "scapula"

	v := newValidator(t).Check(0, rec)
	assert.True(t, v.Rejected())
	assert.Equal(t, model.StageStrategyBound, v.FailedAt)
	assert.Equal(t, model.ReasonNoRotationData, v.Reason)
	assert.False(t, v.HasRotationData)
	assert.True(t, v.HasTranslationData)
	assert.True(t, v.TranslationUsable)
}

func TestCheck_TranslationNeedsISBFrames(t *testing.T) {
	rec := model.Record{
		Joint:              "AC",
		Parent:             "clavicle",
		Child:              "scapula",
		EulerSequence:      "zxy",
		DisplacementOrigin: "AA",
		DisplacementFrame:  "clavicle",
		Segments: map[string]model.SegmentEntry{
			"clavicle": rotatedEntry("SCJC", "to_isb"),
			"scapula":  rotatedEntry("AA", "to_isb"),
		},
	}

	v := newValidator(t).Check(0, rec)
	require.True(t, v.Usable, v.Detail)
	assert.True(t, v.HasTranslationData)
	assert.False(t, v.TranslationUsable)
}

func TestCheck_ThoraxAsGlobalFrame(t *testing.T) {
	rec := scapulothoracic(isbEntry("AA"))
	rec.ThoraxIsGlobal = true

	v := newValidator(t).Check(0, rec)
	assert.Equal(t, model.ReasonUnresolvedBranch, v.Reason)
	assert.Equal(t, model.StageCorrectionsValid, v.FailedAt)

	thorax := rec.Segments["thorax"]
	thorax.Correctable = boolPtr(true)
	rec.Segments["thorax"] = thorax
	v = newValidator(t).Check(0, rec)
	assert.Equal(t, model.ReasonMissingToISBLike, v.Reason)

	thorax.Corrections = []string{"to_isb_like"}
	rec.Segments["thorax"] = thorax
	v = newValidator(t).Check(0, rec)
	assert.True(t, v.Usable, v.Detail)

	thorax.Correctable = boolPtr(false)
	thorax.Corrections = nil
	rec.Segments["thorax"] = thorax
	v = newValidator(t).Check(0, rec)
	require.True(t, v.Usable, v.Detail)
	assert.Contains(t, v.Limitations, "thorax is the global frame and cannot be realigned")
}

func TestCheck_StrictEngineRejectsFullRecompute(t *testing.T) {
	opts := convert.DefaultOptions()
	opts.AllowFullRecompute = false
	val := NewValidator(convert.NewEngine(opts), nil)

	scapula := isbEntry("GC")
	scapula.IsISB = false
	scapula.Corrections = []string{"glenoid_to_isb_cs"}

	v := val.Check(0, scapulothoracic(scapula))
	assert.Equal(t, model.ReasonNonConvertible, v.Reason)
	assert.Equal(t, model.StageStrategyBound, v.FailedAt)
}

func TestCheck_AccumulatesSegmentProblems(t *testing.T) {
	rec := glenohumeral()
	rec.Segments["scapula"] = model.SegmentEntry{X: "+anteroposterior", Y: "+anteroposterior", Z: "+mediolateral"}
	h := rec.Segments["humerus"]
	h.Z = "-mediolateral"
	rec.Segments["humerus"] = h

	v := newValidator(t).Check(0, rec)
	assert.Equal(t, model.ReasonInvalidFrame, v.Reason)
	assert.Contains(t, v.Detail, "scapula")
	assert.Contains(t, v.Detail, "left-handed")
}

func TestDescribe(t *testing.T) {
	out := Describe(glenohumeral())
	assert.Contains(t, out, "scapula (+x, +y, +z) @ AA: isb=true")
	assert.Contains(t, out, "humerus (+x, +y, +z) @ GH: isb=true")
}
