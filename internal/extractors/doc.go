// Package extractors converts raw document bytes into plain text.
//
// Extraction is a boundary concern: the core pipeline consumes only
// (source id, text) pairs. One extractor exists per supported format and
// is selected by file extension; unknown extensions fall back to the
// plain text extractor.
package extractors
