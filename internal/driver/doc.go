// Package driver orchestrates whole-file and whole-tree formatting runs.
//
// It owns file discovery, per-file pipelines (lex, group, annotate, lay out),
// parallel fan-out, the result cache, and progress reporting. It does not
// interpret command-line flags or render output; that is cmd/pyfmt's job.
// Dependencies: internal/lexer, internal/logical, internal/penalty,
// internal/reformat, internal/style, internal/source, internal/diag.
package driver
