// Package pipeline runs one conversion pass over a clips directory.
//
// A Runner pulls bundles from the scanner one at a time, resolves each
// bundle's game name, plans the output file, remuxes it, stamps the capture
// time onto the result and, when asked, removes the source folders. A bundle
// that fails is recorded in the Summary and the run moves on; only an unusable
// input root, a held output lock or cancellation ends the run early.
package pipeline
