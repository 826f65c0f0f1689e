package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/polaris/pkg/errors"
)

const sampleJSON = `{
  "elements": [
    {"id": "1", "name": "React", "dimension": "fe", "stage": "adopt"},
    {"id": "2", "name": "Kafka", "dimension": "be", "stage": "trial", "extra": true}
  ],
  "radar-data": {
    "dimensions": [{"id": "fe", "name": "Frontend"}, {"id": "be", "name": "Backend"}],
    "stages": [{"id": "adopt", "name": "Adopt", "level": 1}, {"id": "trial", "name": "Trial", "level": 2}]
  }
}`

const sampleYAML = `
elements:
  - {id: "1", name: React, dimension: fe, stage: adopt}
  - {id: "2", name: Kafka, dimension: be, stage: trial}
radar-data:
  dimensions:
    - {id: fe, name: Frontend}
    - {id: be, name: Backend}
  stages:
    - {id: adopt, name: Adopt, level: 1}
    - {id: trial, name: Trial, level: 2}
`

func TestJSONAndYAMLAgree(t *testing.T) {
	fromJSON, err := ReadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	fromYAML, err := ReadYAML(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("ReadYAML: %v", err)
	}
	if diff := cmp.Diff(fromJSON, fromYAML); diff != "" {
		t.Errorf("documents differ (-json +yaml):\n%s", diff)
	}
	if fromJSON.RadarData.Stages[1].Level != 2 {
		t.Errorf("stage level = %d, want 2", fromJSON.RadarData.Stages[1].Level)
	}
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
		f    Format
	}{
		{"json syntax", `{"elements": [`, FormatJSON},
		{"json type", `{"elements": {}}`, FormatJSON},
		{"yaml type", "elements: nope\n", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in), tt.f)
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("Read() error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"radar.json", FormatJSON, false},
		{"radar.YAML", FormatYAML, false},
		{"dir/radar.yml", FormatYAML, false},
		{"radar.toml", "", true},
		{"radar", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, %v", tt.path, got, err)
		}
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	for _, name := range []string{"out.json", "out.yaml"} {
		path := filepath.Join(dir, name)
		if err := ExportFile(doc, path); err != nil {
			t.Fatalf("ExportFile(%s): %v", name, err)
		}
		back, err := ImportFile(path)
		if err != nil {
			t.Fatalf("ImportFile(%s): %v", name, err)
		}
		if diff := cmp.Diff(doc, back); diff != "" {
			t.Errorf("%s round trip (-want +got):\n%s", name, diff)
		}
	}
}

func TestImportFileMissing(t *testing.T) {
	_, err := ImportFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportFile() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestWriteYAMLKeys(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteYAML(doc, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "radar-data:") {
		t.Errorf("YAML output missing radar-data key:\n%s", buf.String())
	}
}
