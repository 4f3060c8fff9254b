package cli

import (
	"github.com/ppiankov/isbalign/internal/model"
	"github.com/ppiankov/isbalign/internal/pipeline"
	"github.com/spf13/cobra"
)

// exampleCmd prints a records file to start from
var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print an example records file",
	Long: `Print a records file with one ISB-compliant glenohumeral record and one
acromioclavicular record reported in a rotated frame.

Example:
  isbalign example > records.yaml
  isbalign check records.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.WriteRecords(cmd.OutOrStdout(), exampleRecords())
	},
}

func init() {
	rootCmd.AddCommand(exampleCmd)
}

func exampleRecords() []model.Record {
	isb := func(origin string) model.SegmentEntry {
		return model.SegmentEntry{X: "+anteroposterior", Y: "+inferosuperior", Z: "+mediolateral", Origin: origin, IsISB: true}
	}
	rotated := func(origin string) model.SegmentEntry {
		return model.SegmentEntry{X: "+anteroposterior", Y: "-mediolateral", Z: "+inferosuperior", Origin: origin, Corrections: []string{"to_isb"}}
	}
	return []model.Record{
		{
			ID:            "gh-1",
			Source:        "author_2020",
			Joint:         "GH",
			Parent:        "scapula",
			Child:         "humerus",
			EulerSequence: "yxy",
			Segments: map[string]model.SegmentEntry{
				"scapula": isb("AA"),
				"humerus": isb("GH"),
			},
			Samples: [][3]float64{{0.35, -0.6, 0.2}},
		},
		{
			ID:            "ac-1",
			Source:        "author_2018",
			Joint:         "AC",
			Parent:        "clavicle",
			Child:         "scapula",
			EulerSequence: "zxy",
			Segments: map[string]model.SegmentEntry{
				"clavicle": rotated("SCJC"),
				"scapula":  rotated("AA"),
			},
			Samples: [][3]float64{{0.1, -0.2, 0.3}},
		},
	}
}
