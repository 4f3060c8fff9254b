// Package validate checks dataset records for internal consistency and binds
// the conversion strategy of every usable record.
package validate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/isbalign/internal/axis"
	"github.com/ppiankov/isbalign/internal/convert"
	"github.com/ppiankov/isbalign/internal/euler"
	"github.com/ppiankov/isbalign/internal/frame"
	"github.com/ppiankov/isbalign/internal/model"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Validator walks each record through the consistency states
type Validator struct {
	engine *convert.Engine
	logger *zap.Logger
}

// NewValidator creates a validator deriving strategies with engine
func NewValidator(engine *convert.Engine, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{
		engine: engine,
		logger: logger.Named("validate"),
	}
}

// assessment is the working state of one record
type assessment struct {
	record  model.Record
	frames  map[frame.Segment]frame.Frame
	entries map[frame.Segment]model.SegmentEntry
	joint   euler.JointSpec

	parent, child                     frame.Frame
	parentCorrection, childCorrection convert.Correction

	verdict model.Verdict
}

type step struct {
	reaches model.Stage
	run     func(*assessment) error
}

// Check validates one record. Rejections are returned as verdicts; only a
// failed strategy self-check panics.
func (v *Validator) Check(index int, rec model.Record) model.Verdict {
	a := &assessment{
		record:  rec,
		frames:  make(map[frame.Segment]frame.Frame),
		entries: make(map[frame.Segment]model.SegmentEntry),
		verdict: model.Verdict{
			Index:              index,
			RecordID:           rec.ID,
			Source:             rec.Source,
			Joint:              rec.Joint,
			Stage:              model.StageUnchecked,
			HasRotationData:    rec.HasRotationData(),
			HasTranslationData: rec.HasTranslationData(),
		},
	}

	steps := []step{
		{model.StageSegmentsValid, v.checkSegments},
		{model.StageJointValid, v.checkJoint},
		{model.StageSegmentsAssigned, v.assignSegments},
		{model.StageCorrectionsValid, v.checkCorrections},
		{model.StageStrategyBound, v.bindStrategy},
	}
	for _, s := range steps {
		if err := s.run(a); err != nil {
			return v.reject(a, s.reaches, err)
		}
		a.verdict.Stage = s.reaches
	}

	a.verdict.Usable = true
	v.logger.Debug("record usable",
		zap.String("record", rec.Label()),
		zap.Stringer("strategy", a.verdict.Strategy))
	return a.verdict
}

func (v *Validator) reject(a *assessment, failedAt model.Stage, err error) model.Verdict {
	a.verdict.FailedAt = failedAt
	a.verdict.Stage = model.StageRejected
	a.verdict.Usable = false
	a.verdict.Strategy = nil
	a.verdict.Reason = reasonOf(err)
	a.verdict.Detail = err.Error()

	if ce := v.logger.Check(zap.DebugLevel, "record rejected"); ce != nil {
		ce.Write(
			zap.String("record", a.record.Label()),
			zap.String("stage", string(failedAt)),
			zap.String("reason", string(a.verdict.Reason)),
			zap.String("frames", Describe(a.record)),
			zap.Error(err))
	}
	return a.verdict
}

func (v *Validator) checkSegments(a *assessment) error {
	keys := make([]string, 0, len(a.record.Segments))
	for key := range a.record.Segments {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var errs error
	for _, key := range keys {
		entry := a.record.Segments[key]
		seg, err := frame.ParseSegment(key)
		if err != nil {
			errs = multierr.Append(errs, &Issue{Reason: model.ReasonInvalidFrame, Err: err})
			continue
		}
		if entry.Empty() {
			continue
		}
		a.entries[seg] = entry
	}

	for _, seg := range frame.Segments() {
		entry, ok := a.entries[seg]
		if !ok {
			continue
		}
		f, err := buildFrame(seg, entry)
		if err != nil {
			errs = multierr.Append(errs, &Issue{Reason: model.ReasonInvalidFrame, Err: err})
			continue
		}
		if !f.IsDirect() {
			errs = multierr.Append(errs, issuef(model.ReasonIndirectFrame, "%s is left-handed", f))
			continue
		}
		if entry.IsISB != f.IsISB() {
			if !entry.NotCorrectable() {
				errs = multierr.Append(errs, issuef(model.ReasonInconsistentISBFlag,
					"%s: expected is_isb=%t, detected %t (oriented=%t, origin=%t)",
					seg, entry.IsISB, f.IsISB(), f.IsISBOriented(), f.IsISBOrigin()))
				continue
			}
			a.verdict.Limitations = append(a.verdict.Limitations,
				fmt.Sprintf("%s declared is_isb=%t but detected %t", seg, entry.IsISB, f.IsISB()))
		}
		a.frames[seg] = f
	}
	return errs
}

func buildFrame(seg frame.Segment, entry model.SegmentEntry) (frame.Frame, error) {
	var dirs [3]axis.Direction
	for i, raw := range []string{entry.X, entry.Y, entry.Z} {
		d, err := axis.ParseDirection(raw)
		if err != nil {
			return frame.Frame{}, &frame.InvalidFrameError{Segment: seg, Reason: err.Error()}
		}
		dirs[i] = d
	}
	origin, err := frame.ParseLandmark(entry.Origin)
	if err != nil {
		return frame.Frame{}, &frame.InvalidFrameError{Segment: seg, Reason: err.Error()}
	}
	return frame.FromDirections(seg, dirs[0], dirs[1], dirs[2], origin)
}

func (v *Validator) checkJoint(a *assessment) error {
	rec := a.record
	if !a.verdict.HasRotationData && !a.verdict.HasTranslationData {
		return issuef(model.ReasonNoKinematicData, "joint %q reports neither an euler sequence nor a translation", rec.Joint)
	}

	jt, err := euler.ParseJointType(rec.Joint)
	if err != nil {
		return &Issue{Reason: model.ReasonUnsupportedJoint, Err: err}
	}

	seq, err := euler.ParseSequence(rec.EulerSequence)
	if err != nil {
		return &Issue{Reason: model.ReasonInvalidSequence, Err: err}
	}

	if a.verdict.HasTranslationData {
		if _, err := frame.ParseLandmark(rec.DisplacementOrigin); err != nil {
			return &Issue{Reason: model.ReasonInvalidTranslation, Err: err}
		}
		if _, err := frame.ParseSegment(rec.DisplacementFrame); err != nil {
			return &Issue{Reason: model.ReasonInvalidTranslation, Err: err}
		}
	}

	parent, err := frame.ParseSegment(rec.Parent)
	if err != nil {
		return &Issue{Reason: model.ReasonJointPairing, Err: fmt.Errorf("parent: %w", err)}
	}
	child, err := frame.ParseSegment(rec.Child)
	if err != nil {
		return &Issue{Reason: model.ReasonJointPairing, Err: fmt.Errorf("child: %w", err)}
	}

	a.joint = euler.JointSpec{Type: jt, Sequence: seq}
	if err := a.joint.CheckPairing(parent, child); err != nil {
		return &Issue{Reason: model.ReasonJointPairing, Err: err}
	}
	return nil
}

func (v *Validator) assignSegments(a *assessment) error {
	parentSeg, childSeg := a.joint.Type.Segments()
	var errs error
	for _, role := range []struct {
		name string
		seg  frame.Segment
		dst  *frame.Frame
	}{
		{"parent", parentSeg, &a.parent},
		{"child", childSeg, &a.child},
	} {
		f, ok := a.frames[role.seg]
		if !ok {
			errs = multierr.Append(errs, issuef(model.ReasonMissingSegment, "%s segment %s has no frame", role.name, role.seg))
			continue
		}
		*role.dst = f
	}
	return errs
}

func (v *Validator) checkCorrections(a *assessment) error {
	var errs error
	for _, side := range []struct {
		f   frame.Frame
		dst *convert.Correction
	}{
		{a.parent, &a.parentCorrection},
		{a.child, &a.childCorrection},
	} {
		literature, limitation, err := segmentCorrection(side.f, a.entries[side.f.Segment], a.record.ThoraxIsGlobal)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		*side.dst = literature
		if limitation != "" {
			a.verdict.Limitations = append(a.verdict.Limitations, limitation)
		}
	}
	return errs
}

func (v *Validator) bindStrategy(a *assessment) error {
	a.verdict.TranslationUsable = a.verdict.HasTranslationData && a.parent.IsISB() && a.child.IsISB()

	if !a.verdict.HasRotationData {
		return issuef(model.ReasonNoRotationData, "joint %s reports translations only", a.joint.Type)
	}
	if a.parent.Orientation != a.child.Orientation {
		return issuef(model.ReasonAsymmetricOrientation, "parent %s, child %s", a.parent, a.child)
	}

	s, err := v.engine.Derive(convert.Request{
		Reported:         a.joint.Sequence,
		Target:           a.joint.Type.ISBSequence(),
		Parent:           a.parent.Orientation,
		Child:            a.child.Orientation,
		ParentCorrection: a.parentCorrection,
		ChildCorrection:  a.childCorrection,
		SignFlipAllowed:  a.joint.IsSignFlipConvertible(),
	})
	switch {
	case errors.Is(err, convert.ErrAsymmetricOrientation):
		return &Issue{Reason: model.ReasonAsymmetricOrientation, Err: err}
	case err != nil:
		return &Issue{Reason: model.ReasonNonConvertible, Err: err}
	}

	a.verdict.Strategy = reportStrategy(s)
	if len(a.record.Samples) > 0 {
		a.verdict.Corrected = s.ApplyAll(a.record.Samples)
	}
	return nil
}

// Describe renders the frames of a record for diagnostics.
func Describe(rec model.Record) string {
	var b strings.Builder
	for _, seg := range frame.Segments() {
		for key, entry := range rec.Segments {
			if s, err := frame.ParseSegment(key); err != nil || s != seg || entry.Empty() {
				continue
			}
			f, err := buildFrame(seg, entry)
			if err != nil {
				fmt.Fprintf(&b, "%s: %v\n", seg, err)
				continue
			}
			fmt.Fprintf(&b, "%s: isb=%t oriented=%t origin=%t on_axis=%t direct=%t\n",
				f, f.IsISB(), f.IsISBOriented(), f.IsISBOrigin(), f.IsOnISBAxis(), f.IsDirect())
		}
	}
	return b.String()
}
