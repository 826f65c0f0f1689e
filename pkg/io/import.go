package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/polaris/pkg/document"
	"github.com/matzehuels/polaris/pkg/errors"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported document extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
}

// ReadJSON decodes a JSON document from r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*document.Document, error) {
	var doc document.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	return &doc, nil
}

// ReadYAML decodes a YAML document from r. ReadYAML does not close r.
func ReadYAML(r io.Reader) (*document.Document, error) {
	var doc document.Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return &doc, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
	}
	return &doc, nil
}

// Read decodes a document in the given format.
func Read(r io.Reader, f Format) (*document.Document, error) {
	switch f {
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported document format %q", f)
}

// ImportFile reads the document at path, choosing the decoder by file
// extension.
func ImportFile(path string) (*document.Document, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer file.Close()

	doc, err := Read(file, f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s", path)
	}
	return doc, nil
}
