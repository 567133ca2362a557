// Package preflight provides readiness checks for the filesystem paths and
// external tools a conversion run depends on. The doctor command renders the
// results; none of the checks modify anything.
package preflight
