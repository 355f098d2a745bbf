// Package file provides the file-backed configuration store.
//
// Settings live in a TOML file (~/.tagger/config.toml by default). Keys are
// addressed in dot notation ("enrichment.endpoint") and written back to disk
// as nested tables:
//
//	[enrichment]
//	endpoint = "https://..."
//	timeout_seconds = 300
package file
