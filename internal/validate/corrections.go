package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/isbalign/internal/convert"
	"github.com/ppiankov/isbalign/internal/frame"
	"github.com/ppiankov/isbalign/internal/model"
	"go.uber.org/multierr"
)

// correctionRule lists what a segment must declare.
type correctionRule struct {
	required   []convert.Correction
	literature []convert.Correction // exactly one must be declared
	limitation string
}

func (r correctionRule) allows(c convert.Correction) bool {
	for _, ok := range r.required {
		if c == ok {
			return true
		}
	}
	for _, ok := range r.literature {
		if c == ok {
			return true
		}
	}
	return false
}

// scapulaLiterature picks the calibration matching the scapula origin.
func scapulaLiterature(origin frame.Landmark) []convert.Correction {
	switch origin {
	case frame.GC:
		return []convert.Correction{convert.KolzGCToPA}
	case frame.ACJC:
		return []convert.Correction{convert.KolzACToPA}
	}
	return []convert.Correction{convert.KolzACToPA, convert.KolzGCToPA}
}

func ruleFor(f frame.Frame, entry model.SegmentEntry, thoraxIsGlobal bool) (correctionRule, error) {
	if thoraxIsGlobal && f.Segment == frame.Thorax {
		switch {
		case entry.Correctable == nil:
			return correctionRule{}, issuef(model.ReasonUnresolvedBranch,
				"thorax is the global frame but is_isb_correctable is not set")
		case *entry.Correctable:
			return correctionRule{required: []convert.Correction{convert.ToISBLike}}, nil
		}
		return correctionRule{limitation: "thorax is the global frame and cannot be realigned"}, nil
	}

	oriented, onAxis := f.IsISBOriented(), f.IsOnISBAxis()
	scapula := f.Segment == frame.Scapula

	switch {
	case oriented && onAxis:
		return correctionRule{}, nil
	case oriented && scapula:
		return correctionRule{literature: scapulaLiterature(f.Origin)}, nil
	case oriented:
		return correctionRule{limitation: fmt.Sprintf("%s origin %q is off the ISB axes", f.Segment, f.Origin)}, nil
	case onAxis:
		return correctionRule{required: []convert.Correction{convert.ToISB}}, nil
	case scapula:
		return correctionRule{
			required:   []convert.Correction{convert.ToISB},
			literature: scapulaLiterature(f.Origin),
		}, nil
	case entry.Correctable != nil && *entry.Correctable:
		return correctionRule{required: []convert.Correction{convert.ToISBLike}}, nil
	}
	return correctionRule{limitation: fmt.Sprintf("%s frame is off the ISB axes and not correctable", f.Segment)}, nil
}

func missingReason(c convert.Correction) model.Reason {
	switch c {
	case convert.ToISB:
		return model.ReasonMissingToISB
	case convert.ToISBLike:
		return model.ReasonMissingToISBLike
	}
	return model.ReasonMissingScapulaCorrection
}

func parseCorrections(seg frame.Segment, labels []string) (map[convert.Correction]bool, error) {
	declared := make(map[convert.Correction]bool)
	var errs error
	for _, label := range labels {
		for _, part := range strings.Split(label, ",") {
			c, err := convert.ParseCorrection(part)
			if err != nil {
				errs = multierr.Append(errs, &Issue{Reason: model.ReasonUnknownCorrection, Err: fmt.Errorf("%s: %w", seg, err)})
				continue
			}
			if c != convert.NoCorrection {
				declared[c] = true
			}
		}
	}
	return declared, errs
}

// segmentCorrection checks the corrections declared for f and returns the
// calibration matrix the engine must apply, if any.
func segmentCorrection(f frame.Frame, entry model.SegmentEntry, thoraxIsGlobal bool) (convert.Correction, string, error) {
	declared, err := parseCorrections(f.Segment, entry.Corrections)
	if err != nil {
		return convert.NoCorrection, "", err
	}

	rule, err := ruleFor(f, entry, thoraxIsGlobal)
	if err != nil {
		return convert.NoCorrection, "", err
	}

	var errs error
	for _, c := range rule.required {
		if !declared[c] {
			errs = multierr.Append(errs, issuef(missingReason(c), "%s frame %s requires %s", f.Segment, f.Orientation, c))
		}
	}

	literature := convert.NoCorrection
	if len(rule.literature) > 0 {
		var found []convert.Correction
		for _, c := range rule.literature {
			if declared[c] {
				found = append(found, c)
			}
		}
		switch len(found) {
		case 0:
			errs = multierr.Append(errs, issuef(model.ReasonMissingScapulaCorrection,
				"scapula origin %q needs one of %v", f.Origin, rule.literature))
		case 1:
			literature = found[0]
		default:
			errs = multierr.Append(errs, issuef(model.ReasonExtraneousCorrection,
				"scapula declares several calibrations %v", found))
		}
	}

	names := make([]string, 0, len(declared))
	for c := range declared {
		names = append(names, string(c))
	}
	sort.Strings(names)
	for _, name := range names {
		if c := convert.Correction(name); !rule.allows(c) {
			errs = multierr.Append(errs, issuef(model.ReasonExtraneousCorrection,
				"%s frame %s @ %q does not take %s", f.Segment, f.Orientation, f.Origin, c))
		}
	}

	if errs != nil {
		return convert.NoCorrection, "", errs
	}
	return literature, rule.limitation, nil
}
