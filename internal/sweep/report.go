package sweep

import (
	"time"

	"github.com/rs/zerolog"
)

// State tracks one iteration through the sweep pipeline.
type State string

const (
	StatePending       State = "pending"
	StateRecipeWritten State = "recipe_written"
	StateMerged        State = "merged"
	StateUploaded      State = "uploaded"
	StateDone          State = "done"
	StateFailed        State = "failed"
)

// RunResult records the outcome of a single parameter combination. Failures
// are values here, not suppressed panics: the driver collects every result
// into a Report so the end of the run can show pass/fail per combination.
type RunResult struct {
	Label          string
	State          State
	Err            error
	MergeDuration  time.Duration
	UploadDuration time.Duration
}

// Failed reports whether the iteration ended in the terminal failure state.
func (r RunResult) Failed() bool { return r.State == StateFailed }

// Report is the sweep-level summary of all iterations.
type Report struct {
	Sweep    string
	Started  time.Time
	Finished time.Time
	Results  []RunResult
}

// Completed counts iterations that reached the done state.
func (r Report) Completed() int {
	n := 0
	for _, res := range r.Results {
		if res.State == StateDone {
			n++
		}
	}
	return n
}

// FailedCount counts iterations that ended in failure.
func (r Report) FailedCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Failed() {
			n++
		}
	}
	return n
}

// Log emits the per-combination outcomes and a final summary line.
func (r Report) Log(log zerolog.Logger) {
	for _, res := range r.Results {
		if res.Failed() {
			log.Error().Str("combination", res.Label).Err(res.Err).Msg("combination failed")
			continue
		}
		log.Info().
			Str("combination", res.Label).
			Dur("merge", res.MergeDuration).
			Dur("upload", res.UploadDuration).
			Msg("combination ok")
	}
	log.Info().
		Str("sweep", r.Sweep).
		Int("total", len(r.Results)).
		Int("completed", r.Completed()).
		Int("failed", r.FailedCount()).
		Dur("elapsed", r.Finished.Sub(r.Started)).
		Msg("sweep finished")
}
