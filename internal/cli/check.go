package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/isbalign/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	checkTimeout time.Duration
	strict       bool
	noCache      bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <records.yaml>",
	Short: "Check a records file and derive ISB conversions",
	Long: `Check validates every record of a YAML records file concurrently:
- Segment frames are checked for validity, handedness and declared ISB status
- The joint, its parent/child pairing and the Euler sequence are checked
- Declared corrections are checked against each frame
- Usable records are bound to a conversion strategy

A report is written to the output directory and a summary is printed.

Example:
  isbalign check records.yaml
  isbalign check records.yaml --concurrency 8 --output-dir ./reports
  isbalign check records.yaml --format yaml --strict`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().Int("concurrency", 0, "number of concurrent workers (default: number of CPUs)")
	checkCmd.Flags().String("output-dir", "", "output directory for reports (default: ./isbalign-reports)")
	checkCmd.Flags().String("format", "", "report format: json or yaml (default: json)")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 10*time.Minute, "total timeout for the batch")
	checkCmd.Flags().BoolVar(&strict, "strict", false, "reject records that need a full recompute")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the strategy cache")

	_ = viper.BindPFlag("concurrency.workers", checkCmd.Flags().Lookup("concurrency"))
	_ = viper.BindPFlag("output.directory", checkCmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("output.format", checkCmd.Flags().Lookup("format"))
}

func runCheck(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if strict {
		cfg.Engine.AllowFullRecompute = false
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Output.Directory)
	fmt.Fprintf(os.Stderr, "  Full recompute: %t\n", cfg.Engine.AllowFullRecompute)
	fmt.Fprintf(os.Stderr, "\n")

	p := pipeline.NewPipeline(cfg, logger, cmd.OutOrStdout())

	report, err := p.RunFile(ctx, file)
	if err != nil {
		if report == nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✗ batch incomplete: %v\n", err)
	}

	path, renderErr := p.RenderReport(report)
	if renderErr != nil {
		return renderErr
	}
	fmt.Fprintf(os.Stderr, "✓ Wrote report: %s\n", path)

	return err
}
