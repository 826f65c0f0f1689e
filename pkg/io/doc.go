// Package io reads and writes radar documents as JSON or YAML.
//
// # Formats
//
// Both encodings share one schema (see [document.Document]). YAML uses the
// same keys:
//
//	elements:
//	  - {id: react, name: React, dimension: frontend, stage: adopt}
//	radar-data:
//	  dimensions:
//	    - {id: frontend, name: Frontend}
//	  stages:
//	    - {id: adopt, name: Adopt, level: 1}
//
// # Import
//
// Use [ImportFile] to read a document from disk; the format is chosen by
// extension (.json, .yaml, .yml). [ReadJSON] and [ReadYAML] read from any
// io.Reader:
//
//	doc, err := io.ImportFile("radar.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Decoding failures are reported as INVALID_FORMAT errors, missing files as
// FILE_NOT_FOUND. Semantic checks (unknown stages, duplicates) happen later
// in [document.Document.Dataset].
//
// # Export
//
// [ExportFile] writes a document back to disk in the format matching the
// extension; [WriteJSON] and [WriteYAML] write to any io.Writer.
//
// [document.Document]: github.com/matzehuels/polaris/pkg/document.Document
// [document.Document.Dataset]: github.com/matzehuels/polaris/pkg/document.Document.Dataset
package io
