package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ppiankov/isbalign/internal/model"
	"gopkg.in/yaml.v3"
)

// recordFile is the on-disk layout: a top-level records list. A bare list
// is accepted as well.
type recordFile struct {
	Records []model.Record `yaml:"records"`
}

// LoadRecords reads a YAML record file
func LoadRecords(path string) ([]model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return ParseRecords(data)
}

// ParseRecords decodes records from YAML. JSON input is valid YAML and
// decodes the same way.
func ParseRecords(data []byte) ([]model.Record, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse records: %w", err)
	}
	if len(node.Content) == 0 {
		return []model.Record{}, nil
	}

	var records []model.Record
	switch root := node.Content[0]; root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&records); err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
	case yaml.MappingNode:
		var file recordFile
		if err := root.Decode(&file); err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
		records = file.Records
	default:
		return nil, errors.New("decode records: expected a list or a mapping with a records key")
	}

	if records == nil {
		records = []model.Record{}
	}
	return records, nil
}

// WriteRecords encodes records in the layout LoadRecords reads
func WriteRecords(w io.Writer, records []model.Record) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(recordFile{Records: records}); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
