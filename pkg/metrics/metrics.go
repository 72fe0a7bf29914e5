// Package metrics records build and editing activity.
//
// Components receive a Recorder; NoopRecorder is the default so callers never
// need nil checks. The dev server swaps in a PrometheusRecorder and exposes
// its registry on /metrics.
package metrics

import "time"

// Recorder receives pipeline events.
type Recorder interface {
	ObserveBuild(duration time.Duration, articles int, err error)
	IncArticleMutation(op string)
	AddOrphansDeleted(n int)
	IncUpload()
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuild(time.Duration, int, error) {}
func (NoopRecorder) IncArticleMutation(string)              {}
func (NoopRecorder) AddOrphansDeleted(int)                  {}
func (NoopRecorder) IncUpload()                             {}
