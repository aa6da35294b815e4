// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncUserCreated()
	IncTokenIssued()
	IncAuthFailure()

	// Recipe management metrics
	IncRecipeCreated()
	IncRecipeUpdated()
	IncRecipeDeleted()

	// Label management metrics
	IncLabelCreated(kind string) // kind: "tag" or "ingredient"
	IncLabelDeleted(kind string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
