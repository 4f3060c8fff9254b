package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ppiankov/isbalign/internal/model"
	"gopkg.in/yaml.v3"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	usableStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	rejectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	boxStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// Renderer writes reports to files and summaries to a terminal
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer printing summaries to out
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{out: out}
}

// Render writes report to path in the given format
func (r *Renderer) Render(report *model.Report, path, format string) error {
	switch format {
	case "json":
		return r.RenderJSON(report, path)
	case "yaml":
		return r.RenderYAML(report, path)
	}
	return fmt.Errorf("unsupported output format %q", format)
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderYAML writes the report as YAML
func (r *Renderer) RenderYAML(report *model.Report, path string) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal YAML: %w", err)
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderSummary prints the batch summary box
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Fprintln(r.out, r.Summary(report))
}

// Summary formats the batch summary box
func (r *Renderer) Summary(report *model.Report) string {
	s := report.Summary

	lines := []string{
		titleStyle.Render(fmt.Sprintf("ISB ALIGNMENT · %s", report.Input)),
		"",
		fmt.Sprintf("%s %d", labelStyle.Render("records:"), s.Total),
		fmt.Sprintf("%s %d", usableStyle.Render("usable:  "), s.Usable),
		fmt.Sprintf("%s %d", rejectedStyle.Render("rejected:"), s.Rejected),
		fmt.Sprintf("%s %d", labelStyle.Render("translations usable:"), s.TranslationUsable),
	}

	if len(s.ByStrategy) > 0 {
		lines = append(lines, "", labelStyle.Render("strategies"))
		for _, kind := range model.StrategyKinds() {
			if n := s.ByStrategy[string(kind)]; n > 0 {
				lines = append(lines, detailStyle.Render(fmt.Sprintf("  %-16s %d", kind, n)))
			}
		}
	}

	if reasons := s.Reasons(); len(reasons) > 0 {
		lines = append(lines, "", labelStyle.Render("rejections"))
		for _, reason := range reasons {
			lines = append(lines, detailStyle.Render(fmt.Sprintf("  %-40s %d", reason, s.ByReason[reason])))
		}
	}

	lines = append(lines, "", detailStyle.Render("run "+report.RunID))
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// RenderVerdicts prints one line per record
func (r *Renderer) RenderVerdicts(report *model.Report) {
	for _, v := range report.Verdicts {
		label := v.RecordID
		if label == "" {
			label = fmt.Sprintf("#%d", v.Index)
		}
		if v.Usable {
			strategy := ""
			if v.Strategy != nil {
				strategy = v.Strategy.String()
			}
			fmt.Fprintf(r.out, "%s %s %s %s\n", usableStyle.Render("✓"), label, v.Joint, detailStyle.Render(strategy))
			continue
		}
		fmt.Fprintf(r.out, "%s %s %s %s\n", rejectedStyle.Render("✗"), label, v.Joint, detailStyle.Render(v.Detail))
	}
}
