// Package sweep generates parameter combinations and drives them through the
// merge/upload pipeline, one at a time. Iterations are strictly sequential:
// every merge assumes exclusive access to the accelerator, so the driver never
// overlaps external processes.
package sweep

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"mergescan/internal/common/fsutil"
	"mergescan/internal/recipe"
	"mergescan/internal/tools"
)

// Run describes one sweep iteration: where its recipe and output go, and how
// the base recipe is mutated for it.
type Run struct {
	Label      string
	RecipeName string
	OutputDir  string
	Revision   string // optional upload tag
	Mutate     func(*recipe.Recipe) error
}

// Observer receives driver progress. The status server implements it; a nil
// observer is fine.
type Observer interface {
	SweepStarted(sweep string, total int)
	RunStarted(label string)
	RunFinished(res RunResult)
	SweepFinished(rep Report)
}

// Config carries the explicit process-wide values the driver needs. Scratch
// paths and pauses are threaded through here rather than hidden in globals.
type Config struct {
	Sweep      string
	ScratchDir string
	Pause      time.Duration
	Merger     tools.Merger
	Uploader   tools.Uploader
	Logger     zerolog.Logger
	Observer   Observer
}

// Driver sequences sweep iterations.
type Driver struct {
	cfg Config
}

// NewDriver validates the config and creates the scratch directory if absent.
func NewDriver(cfg Config) (*Driver, error) {
	if cfg.Sweep == "" {
		return nil, fmt.Errorf("sweep name required")
	}
	if cfg.ScratchDir == "" {
		return nil, fmt.Errorf("scratch dir required")
	}
	if cfg.Merger == nil || cfg.Uploader == nil {
		return nil, fmt.Errorf("merger and uploader required")
	}
	if err := fsutil.EnsureDir(cfg.ScratchDir); err != nil {
		return nil, err
	}
	return &Driver{cfg: cfg}, nil
}

// Run executes every combination in order. A failed iteration is recorded and
// the loop moves on; only context cancellation stops the sweep early.
func (d *Driver) Run(ctx context.Context, base *recipe.Recipe, runs []Run) Report {
	rep := Report{Sweep: d.cfg.Sweep, Started: time.Now()}
	if d.cfg.Observer != nil {
		d.cfg.Observer.SweepStarted(d.cfg.Sweep, len(runs))
	}
	for i, run := range runs {
		if ctx.Err() != nil {
			d.cfg.Logger.Warn().
				Err(ctx.Err()).
				Int("remaining", len(runs)-i).
				Msg("sweep interrupted")
			break
		}
		if d.cfg.Observer != nil {
			d.cfg.Observer.RunStarted(run.Label)
		}
		res := d.runOne(ctx, base, run)
		rep.Results = append(rep.Results, res)
		if d.cfg.Observer != nil {
			d.cfg.Observer.RunFinished(res)
		}
		if d.cfg.Pause > 0 && i < len(runs)-1 {
			sleep(ctx, d.cfg.Pause)
		}
	}
	rep.Finished = time.Now()
	if d.cfg.Observer != nil {
		d.cfg.Observer.SweepFinished(rep)
	}
	return rep
}

func (d *Driver) runOne(ctx context.Context, base *recipe.Recipe, run Run) RunResult {
	res := RunResult{Label: run.Label, State: StatePending}
	log := d.cfg.Logger.With().Str("combination", run.Label).Logger()
	log.Info().Str("output_dir", run.OutputDir).Msg("processing combination")

	doc := base.Clone()
	if run.Mutate != nil {
		if err := run.Mutate(doc); err != nil {
			return fail(res, log, fmt.Errorf("mutate recipe: %w", err))
		}
	}
	recipePath := filepath.Join(d.cfg.ScratchDir, run.RecipeName)
	if err := doc.Save(recipePath); err != nil {
		return fail(res, log, err)
	}
	res.State = StateRecipeWritten
	log.Debug().Str("recipe", recipePath).Msg("recipe written")

	// The merge tool refuses a pre-existing output directory.
	if err := fsutil.ClearPath(run.OutputDir); err != nil {
		return fail(res, log, err)
	}

	start := time.Now()
	if err := d.cfg.Merger.Merge(ctx, recipePath, run.OutputDir); err != nil {
		res.MergeDuration = time.Since(start)
		return fail(res, log, err)
	}
	res.MergeDuration = time.Since(start)
	res.State = StateMerged

	start = time.Now()
	if err := d.cfg.Uploader.Upload(ctx, run.OutputDir, run.Revision); err != nil {
		res.UploadDuration = time.Since(start)
		return fail(res, log, err)
	}
	res.UploadDuration = time.Since(start)
	res.State = StateUploaded

	res.State = StateDone
	log.Info().Msg("combination complete")
	return res
}

func fail(res RunResult, log zerolog.Logger, err error) RunResult {
	res.Err = err
	res.State = StateFailed
	log.Error().Err(err).Msg("combination failed")
	return res
}

// sleep pauses between iterations without outliving a canceled context. The
// pause keeps the upload target's rate limiter happy.
func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
