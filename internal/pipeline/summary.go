package pipeline

import (
	"time"

	"steamclip/internal/clips"
)

// Status is the outcome of one bundle.
type Status string

const (
	StatusConverted Status = "converted"
	StatusPlanned   Status = "planned"
	StatusFailed    Status = "failed"
)

// Result describes what happened to one bundle. Err is set when the bundle
// failed; CleanupErr is set when the output was written but the source could
// not be removed.
type Result struct {
	Bundle     clips.Bundle
	Name       string
	Output     string
	Status     Status
	Bytes      int64
	Removed    []string
	Err        error
	CleanupErr error
}

// Summary collects the results of a run in processing order.
type Summary struct {
	RunID    string
	DryRun   bool
	Started  time.Time
	Finished time.Time
	Results  []Result
}

func (s Summary) count(status Status) int {
	n := 0
	for _, result := range s.Results {
		if result.Status == status {
			n++
		}
	}
	return n
}

// Converted counts bundles written to the output directory.
func (s Summary) Converted() int { return s.count(StatusConverted) }

// Planned counts bundles a dry run would convert.
func (s Summary) Planned() int { return s.count(StatusPlanned) }

// Failed counts bundles that were not converted.
func (s Summary) Failed() int { return s.count(StatusFailed) }

// CleanupFailures counts converted bundles whose source folders remain.
func (s Summary) CleanupFailures() int {
	n := 0
	for _, result := range s.Results {
		if result.CleanupErr != nil {
			n++
		}
	}
	return n
}

// Bytes totals the size of all written outputs.
func (s Summary) Bytes() int64 {
	var total int64
	for _, result := range s.Results {
		total += result.Bytes
	}
	return total
}

// HasFailures reports whether any bundle failed.
func (s Summary) HasFailures() bool { return s.Failed() > 0 }

// FailureKinds counts failed bundles by Kind.
func (s Summary) FailureKinds() map[string]int {
	kinds := make(map[string]int)
	for _, result := range s.Results {
		if result.Err != nil {
			kinds[Kind(result.Err)]++
		}
		if result.CleanupErr != nil {
			kinds[Kind(result.CleanupErr)]++
		}
	}
	return kinds
}
