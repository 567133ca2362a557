// Package main hosts the steamclip CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, applies flag overrides,
// and hands the work to the internal packages: the pipeline for conversion,
// the scanner and resolver for listings, and preflight for doctor. Keep this
// package thin; new behaviour belongs in internal/ first.
package main
