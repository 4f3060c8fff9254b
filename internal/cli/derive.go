package cli

import (
	"fmt"

	"github.com/ppiankov/isbalign/internal/axis"
	"github.com/ppiankov/isbalign/internal/convert"
	"github.com/ppiankov/isbalign/internal/euler"
	"github.com/ppiankov/isbalign/internal/frame"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var deriveOpts struct {
	joint            string
	ap, is, ml       string
	sequence         string
	parentCorrection string
	childCorrection  string
	angles           []float64
}

// deriveCmd represents the derive command
var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive the ISB conversion for one frame orientation",
	Long: `Derive prints the conversion strategy for a joint whose parent and child
frames share one orientation, given as the local axis carrying each ISB
direction.

Example:
  isbalign derive --joint AC --ap +x --is +z --ml -y --sequence zxy
  isbalign derive --joint ST --sequence yxz --child-correction kolz_GC_to_PA --angles 0.1,0.2,0.3`,
	Args: cobra.NoArgs,
	RunE: runDerive,
}

func init() {
	rootCmd.AddCommand(deriveCmd)

	f := deriveCmd.Flags()
	f.StringVar(&deriveOpts.joint, "joint", "", "joint name or code (GH, ST, AC, SC, TH)")
	f.StringVar(&deriveOpts.ap, "ap", "+x", "local axis pointing anterior")
	f.StringVar(&deriveOpts.is, "is", "+y", "local axis pointing superior")
	f.StringVar(&deriveOpts.ml, "ml", "+z", "local axis pointing lateral")
	f.StringVar(&deriveOpts.sequence, "sequence", "", "reported Euler sequence (default: the joint's ISB sequence)")
	f.StringVar(&deriveOpts.parentCorrection, "parent-correction", "", "literature correction of the parent frame")
	f.StringVar(&deriveOpts.childCorrection, "child-correction", "", "literature correction of the child frame")
	f.Float64SliceVar(&deriveOpts.angles, "angles", nil, "reported angles in radians to convert (three values)")
	_ = deriveCmd.MarkFlagRequired("joint")
}

// deriveOutput is what derive prints
type deriveOutput struct {
	Joint     euler.JointType   `yaml:"joint"`
	Strategy  convert.Strategy  `yaml:"strategy"`
	Reported  []float64         `yaml:"reported,omitempty"`
	Converted []float64         `yaml:"converted,omitempty"`
	Frame     frame.Orientation `yaml:"frame"`
}

func runDerive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	joint, err := euler.ParseJointType(deriveOpts.joint)
	if err != nil {
		return err
	}

	seq := joint.ISBSequence()
	if deriveOpts.sequence != "" {
		if seq, err = euler.ParseSequence(deriveOpts.sequence); err != nil {
			return err
		}
	}

	var o frame.Orientation
	for _, dst := range []struct {
		raw string
		to  *axis.SignedAxis
	}{
		{deriveOpts.ap, &o.AnteroPosterior},
		{deriveOpts.is, &o.InferoSuperior},
		{deriveOpts.ml, &o.MedioLateral},
	} {
		a, err := axis.Parse(dst.raw)
		if err != nil {
			return err
		}
		*dst.to = a
	}
	if !o.Valid() {
		return fmt.Errorf("orientation %s assigns an axis twice", o)
	}
	if o.Handedness() < 0 {
		return fmt.Errorf("orientation %s is left-handed", o)
	}

	parentCorrection, err := convert.ParseCorrection(deriveOpts.parentCorrection)
	if err != nil {
		return err
	}
	childCorrection, err := convert.ParseCorrection(deriveOpts.childCorrection)
	if err != nil {
		return err
	}

	engine := convert.NewEngine(convert.Options{
		RatioTolerance:     cfg.Engine.RatioTolerance,
		SelfCheckTolerance: cfg.Engine.SelfCheckTolerance,
		AllowFullRecompute: cfg.Engine.AllowFullRecompute,
		Logger:             logger,
	})
	spec := euler.JointSpec{Type: joint, Sequence: seq}
	s, err := engine.Derive(convert.Request{
		Reported:         seq,
		Target:           joint.ISBSequence(),
		Parent:           o,
		Child:            o,
		ParentCorrection: parentCorrection,
		ChildCorrection:  childCorrection,
		SignFlipAllowed:  spec.IsSignFlipConvertible(),
	})
	if err != nil {
		return err
	}

	out := deriveOutput{Joint: joint, Strategy: s, Frame: o}
	if len(deriveOpts.angles) > 0 {
		if len(deriveOpts.angles) != 3 {
			return fmt.Errorf("--angles needs three values, got %d", len(deriveOpts.angles))
		}
		a1, a2, a3 := s.Apply(deriveOpts.angles[0], deriveOpts.angles[1], deriveOpts.angles[2])
		out.Reported = deriveOpts.angles
		out.Converted = []float64{a1, a2, a3}
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode strategy: %w", err)
	}
	return enc.Close()
}
