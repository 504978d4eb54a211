package cache

import "time"

// Entry records one analyzed artifact in the analysis-output store
type Entry struct {
	// Hash is the unique identifier for this entry
	// Computed from: content hash + artifact name + global-cache flag
	Hash string `json:"hash"`

	// Artifact is the absolute path of the analyzed artifact
	Artifact string `json:"artifact"`

	// Timestamp when this entry was created
	Timestamp time.Time `json:"timestamp"`

	// Outputs lists the analysis output files (relative to the entry's
	// output directory)
	Outputs []string `json:"outputs"`
}
