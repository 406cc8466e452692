// Package rulefetch retrieves statutory rule text from a legislative
// publishing site and normalizes it into structured, deduplicated records
// describing procedural filing requirements.
//
// A run acquires a table of contents, extracts candidate section references,
// classifies them for filing relevance, acquires each accepted section through
// a chain of fallback strategies, extracts structured fields by pattern
// analysis, and merges the results into a manifest that persists between runs.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, pdfcpu/, sqlite/).
package rulefetch
