// Package diag defines the diagnostic model shared by the lexer, the
// logical-line builder, and the reformatting engine.
//
// Diagnostic is the central record: severity, a stable numeric code, a short
// message, and a primary source span. Producers emit through a Reporter so
// they stay decoupled from storage; BagReporter aggregates into a Bag, which
// supports sorting, deduplication, and merging across files.
//
// The package performs no IO and no formatting; rendering lives in the CLI
// layer.
package diag
