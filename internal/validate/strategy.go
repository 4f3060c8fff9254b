package validate

import (
	"github.com/ppiankov/isbalign/internal/convert"
	"github.com/ppiankov/isbalign/internal/frame"
	"github.com/ppiankov/isbalign/internal/model"
)

// reportStrategy flattens a derived strategy into the verdict form.
func reportStrategy(s convert.Strategy) *model.Strategy {
	return &model.Strategy{
		Kind:             model.StrategyKind(s.Kind),
		Signs:            s.Signs,
		From:             s.From.String(),
		To:               s.To.String(),
		Parent:           reportAxes(s.Parent),
		Child:            reportAxes(s.Child),
		ParentCorrection: string(s.ParentCorrection),
		ChildCorrection:  string(s.ChildCorrection),
		Flip:             s.Flip,
	}
}

func reportAxes(o frame.Orientation) model.Axes {
	return model.Axes{
		AnteroPosterior: o.AnteroPosterior.String(),
		InferoSuperior:  o.InferoSuperior.String(),
		MedioLateral:    o.MedioLateral.String(),
	}
}
