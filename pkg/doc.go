// Package pkg holds the polaris libraries.
//
// Polaris lays out technology radars: entities (technologies) are grouped
// into dimensions (angular sectors) and placed on rings by adoption stage.
// The data flows through:
//
//	radar document (JSON/YAML)   [io], [document]
//	         ↓
//	normalized dataset           [core/radar]
//	         ↓
//	polar layout                 [core/radar/layout]
//	         ↓
//	drawing primitives           [core/radar/primitive]
//	         ↓
//	SVG/PNG/PDF/JSON/DOT         [core/render/sink], [core/render]
//
// [pipeline] orchestrates these stages with caching ([cache]) and
// observability hooks ([observability]). [server] exposes stored radars
// ([storage]) over HTTP.
package pkg
