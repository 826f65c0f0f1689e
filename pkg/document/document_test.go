package document

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/polaris/pkg/errors"
)

const templateJSON = `{
  "elements": [
    {"id": "2", "name": "Vite", "dimension": "fe", "stage": "trial"},
    {"id": "1", "name": "React", "dimension": "fe", "stage": "adopt"},
    {"id": "3", "name": "Kafka", "dimension": "be", "stage": "adopt"}
  ],
  "radar-data": {
    "dimensions": [{"id": "fe", "name": "Frontend"}, {"id": "be", "name": "Backend"}],
    "stages": [{"id": "adopt", "name": "Adopt", "level": 1}, {"id": "trial", "name": "Trial", "level": 2}]
  }
}`

func TestDocumentDataset(t *testing.T) {
	var doc Document
	if err := json.Unmarshal([]byte(templateJSON), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	ds, err := doc.Dataset()
	if err != nil {
		t.Fatalf("Dataset: %v", err)
	}

	var got []string
	for _, e := range ds.Entities() {
		got = append(got, e.Name)
	}
	want := []string{"Kafka", "React", "Vite"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entity %d = %s, want %s", i, got[i], want[i])
		}
	}

	if s := doc.Stats(); s.Elements != 3 || s.Dimensions != 2 || s.Stages != 2 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestDocumentDatasetValidation(t *testing.T) {
	doc := Document{
		Elements:  []Element{{ID: "1", Dimension: "fe", Stage: "hold"}},
		RadarData: RadarData{Dimensions: []Dimension{{ID: "fe"}}, Stages: []Stage{{ID: "adopt", Level: 1}}},
	}
	_, err := doc.Dataset()
	if !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("Dataset() error = %v, want VALIDATION_FAILED", err)
	}
}

func TestDocumentCanonicalStable(t *testing.T) {
	var a, b Document
	if err := json.Unmarshal([]byte(templateJSON), &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(templateJSON), &b); err != nil {
		t.Fatal(err)
	}
	ca, _ := a.Canonical()
	cb, _ := b.Canonical()
	if string(ca) != string(cb) {
		t.Error("Canonical() differs for equal documents")
	}

	b.Elements[0].Name = "Vitest"
	cb, _ = b.Canonical()
	if string(ca) == string(cb) {
		t.Error("Canonical() should change with content")
	}
}
