package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/isbalign/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gopkg.in/yaml.v3"
)

func testConfig(t *testing.T) *model.Config {
	cfg := model.DefaultConfig()
	cfg.Concurrency.Workers = 3
	cfg.Cache.CleanupInterval = 0
	cfg.Output.Directory = t.TempDir()
	return cfg
}

func TestLoadRecords(t *testing.T) {
	records, err := LoadRecords(filepath.Join("testdata", "records.yaml"))
	require.NoError(t, err)
	require.Len(t, records, 5)

	ac := records[1]
	assert.Equal(t, "ac-rotated", ac.ID)
	assert.Equal(t, "roe_2018", ac.Source)
	assert.Equal(t, "-mediolateral", ac.Segments["clavicle"].Y)
	assert.Equal(t, []string{"to_isb"}, ac.Segments["scapula"].Corrections)
	assert.Equal(t, [][3]float64{{0.1, -0.2, 0.3}}, ac.Samples)

	assert.False(t, records[4].HasRotationData())
	assert.True(t, records[4].HasTranslationData())
}

func TestParseRecords_Layouts(t *testing.T) {
	list := []byte("- id: a\n  joint: GH\n- id: b\n  joint: ST\n")
	records, err := ParseRecords(list)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[1].ID)

	asJSON := []byte(`{"records": [{"id": "c", "joint": "AC", "segments": {"scapula": {"x": "+ap", "y": "+is", "z": "+ml", "is_isb_correctable": false}}}]}`)
	records, err = ParseRecords(asJSON)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Segments["scapula"].Correctable)
	assert.False(t, *records[0].Segments["scapula"].Correctable)

	records, err = ParseRecords(nil)
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = ParseRecords([]byte("just a string"))
	assert.Error(t, err)

	_, err = ParseRecords([]byte("records: [\n"))
	assert.Error(t, err)
}

func TestWriteRecords_ReadBack(t *testing.T) {
	records, err := LoadRecords(filepath.Join("testdata", "records.yaml"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, records))

	again, err := ParseRecords(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, records, again)
}

func TestLoadRecords_MissingFile(t *testing.T) {
	_, err := LoadRecords(filepath.Join("testdata", "absent.yaml"))
	assert.Error(t, err)
}

func TestPipeline_RunFile(t *testing.T) {
	var out bytes.Buffer
	p := NewPipeline(testConfig(t), zaptest.NewLogger(t), &out)

	report, err := p.RunFile(context.Background(), filepath.Join("testdata", "records.yaml"))
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Verdicts, 5)
	for i, v := range report.Verdicts {
		assert.Equal(t, i, v.Index)
	}

	byID := map[string]model.Verdict{}
	for _, v := range report.Verdicts {
		byID[v.RecordID] = v
	}

	assert.Equal(t, model.StrategyIdentity, byID["gh-isb"].Strategy.Kind)
	assert.Equal(t, model.StrategySignFlip, byID["ac-rotated"].Strategy.Kind)
	assert.Equal(t, [][3]float64{{0.1, -0.2, -0.3}}, byID["ac-rotated"].Corrected)
	assert.Equal(t, model.StrategyFullRecompute, byID["st-glenoid"].Strategy.Kind)
	assert.Equal(t, model.ReasonMissingScapulaCorrection, byID["st-missing-calibration"].Reason)
	assert.Equal(t, model.ReasonNoRotationData, byID["gh-translation"].Reason)
	assert.True(t, byID["gh-translation"].TranslationUsable)

	s := report.Summary
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 3, s.Usable)
	assert.Equal(t, 2, s.Rejected)
	assert.Equal(t, 1, s.TranslationUsable)
	assert.Equal(t, map[string]int{"identity": 1, "sign_flip": 1, "full_recompute": 1}, s.ByStrategy)
}

func TestPipeline_StrictEngine(t *testing.T) {
	cfg := testConfig(t)
	cfg.Engine.AllowFullRecompute = false
	cfg.Cache.Enabled = false
	p := NewPipeline(cfg, nil, &bytes.Buffer{})

	report, err := p.RunFile(context.Background(), filepath.Join("testdata", "records.yaml"))
	require.NoError(t, err)
	assert.Equal(t, model.ReasonNonConvertible, report.Verdicts[2].Reason)
	assert.Equal(t, 2, report.Summary.Usable)
}

func TestPipeline_RunCancelled(t *testing.T) {
	records, err := LoadRecords(filepath.Join("testdata", "records.yaml"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(testConfig(t), nil, &bytes.Buffer{})
	report, err := p.Run(ctx, "inline", records)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Less(t, len(report.Verdicts), len(records))
}

func TestPipeline_RenderReport(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Output.Format = format
			cfg.Output.Verbose = true

			var out bytes.Buffer
			p := NewPipeline(cfg, nil, &out)
			report, err := p.RunFile(context.Background(), filepath.Join("testdata", "records.yaml"))
			require.NoError(t, err)

			path, err := p.RenderReport(report)
			require.NoError(t, err)
			assert.Equal(t, cfg.Output.Directory, filepath.Dir(path))
			assert.Equal(t, "."+format, filepath.Ext(path))

			data, err := os.ReadFile(path)
			require.NoError(t, err)

			var decoded struct {
				RunID   string `json:"run_id" yaml:"run_id"`
				Summary struct {
					Usable int `json:"usable" yaml:"usable"`
				} `json:"summary" yaml:"summary"`
			}
			if format == "json" {
				require.NoError(t, json.Unmarshal(data, &decoded))
			} else {
				require.NoError(t, yaml.Unmarshal(data, &decoded))
			}
			assert.Equal(t, report.RunID, decoded.RunID)
			assert.Equal(t, 3, decoded.Summary.Usable)

			assert.Contains(t, out.String(), "st-missing-calibration")
			assert.Contains(t, out.String(), "missing scapula correction")
			assert.Contains(t, out.String(), report.RunID)
		})
	}
}

func TestRenderer_UnsupportedFormat(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{})
	err := r.Render(&model.Report{}, filepath.Join(t.TempDir(), "r.txt"), "csv")
	assert.Error(t, err)
}
