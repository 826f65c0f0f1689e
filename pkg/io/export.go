package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/polaris/pkg/document"
)

// WriteJSON encodes doc as indented JSON.
func WriteJSON(doc *document.Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteYAML encodes doc as YAML with two-space indentation.
func WriteYAML(doc *document.Document, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// Write encodes doc in the given format.
func Write(doc *document.Document, w io.Writer, f Format) error {
	if f == FormatYAML {
		return WriteYAML(doc, w)
	}
	return WriteJSON(doc, w)
}

// ExportFile writes doc to path in the format matching its extension.
func ExportFile(doc *document.Document, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(doc, file, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
