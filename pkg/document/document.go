// Package document defines the serialized form of a radar: the input
// document read from JSON or YAML files, stored by the HTTP API and
// persisted in MongoDB.
//
// The format keeps the field names of the radar data template:
//
//	{
//	  "elements": [
//	    {"id": "react", "name": "React", "dimension": "frontend", "stage": "adopt"}
//	  ],
//	  "radar-data": {
//	    "dimensions": [{"id": "frontend", "name": "Frontend"}],
//	    "stages": [{"id": "adopt", "name": "Adopt", "level": 1}]
//	  }
//	}
package document

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/polaris/pkg/core/radar"
)

// Document is a radar's input data.
type Document struct {
	Elements  []Element `json:"elements" yaml:"elements" bson:"elements"`
	RadarData RadarData `json:"radar-data" yaml:"radar-data" bson:"radar_data"`
}

// Element is one entity on the radar.
type Element struct {
	ID        string `json:"id" yaml:"id" bson:"id"`
	Name      string `json:"name" yaml:"name" bson:"name"`
	Dimension string `json:"dimension" yaml:"dimension" bson:"dimension"`
	Stage     string `json:"stage" yaml:"stage" bson:"stage"`
}

// RadarData holds the dimension and stage metadata.
type RadarData struct {
	Dimensions []Dimension `json:"dimensions" yaml:"dimensions" bson:"dimensions"`
	Stages     []Stage     `json:"stages" yaml:"stages" bson:"stages"`
}

// Dimension describes one sector.
type Dimension struct {
	ID   string `json:"id" yaml:"id" bson:"id"`
	Name string `json:"name" yaml:"name" bson:"name"`
}

// Stage describes one ring. Lower levels are inner rings.
type Stage struct {
	ID    string `json:"id" yaml:"id" bson:"id"`
	Name  string `json:"name" yaml:"name" bson:"name"`
	Level int    `json:"level" yaml:"level" bson:"level"`
}

// Dataset converts the document to radar records and normalizes them.
// Validation failures are reported as VALIDATION_FAILED errors.
func (d *Document) Dataset() (*radar.Dataset, error) {
	entities := make([]radar.Entity, len(d.Elements))
	for i, e := range d.Elements {
		entities[i] = radar.Entity{ID: e.ID, Name: e.Name, DimensionID: e.Dimension, StageID: e.Stage}
	}
	dims := make([]radar.Dimension, len(d.RadarData.Dimensions))
	for i, dm := range d.RadarData.Dimensions {
		dims[i] = radar.Dimension{ID: dm.ID, Name: dm.Name}
	}
	stages := make([]radar.Stage, len(d.RadarData.Stages))
	for i, s := range d.RadarData.Stages {
		stages[i] = radar.Stage{ID: s.ID, Name: s.Name, Level: s.Level}
	}
	return radar.Normalize(entities, dims, stages)
}

// Canonical returns the compact JSON encoding used for content hashes.
// Field order follows the struct, so equal documents encode identically.
func (d *Document) Canonical() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

// Stats summarizes a document's size.
type Stats struct {
	Elements   int
	Dimensions int
	Stages     int
}

// Stats counts the document's records.
func (d *Document) Stats() Stats {
	return Stats{
		Elements:   len(d.Elements),
		Dimensions: len(d.RadarData.Dimensions),
		Stages:     len(d.RadarData.Stages),
	}
}
