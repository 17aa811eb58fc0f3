package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"mergescan/internal/common/fsutil"
	"mergescan/internal/config"
	"mergescan/internal/recipe"
	"mergescan/internal/statusapi"
	"mergescan/internal/sweep"
	"mergescan/internal/tools"
)

// App carries resolved settings and the logger into the subcommands.
type App struct {
	Settings config.Settings
	Log      zerolog.Logger
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// loadBase reads and shape-checks the base recipe. Any error here is fatal:
// the sweep never starts on a malformed recipe.
func loadBase(path string) (*recipe.Recipe, error) {
	path, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	r, err := recipe.Load(path)
	if err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// newDriver wires the sweep driver for one sweep type: namespaced scratch
// dir, merge/upload invokers, and the status server when an address is set.
func (a *App) newDriver(ctx context.Context, sweepType, uploadScript string, trustRemoteCode bool) (*sweep.Driver, error) {
	scratch, err := fsutil.ExpandHome(a.Settings.ScratchDir)
	if err != nil {
		return nil, err
	}
	merger := tools.NewMergeCLI(a.Settings.MergeBin, tools.MergeOptions{
		CUDA:            a.Settings.CUDAEnabled(),
		TrustRemoteCode: trustRemoteCode,
	}, a.Log)

	uploadCmd := a.Settings.UploadCommand
	if len(uploadCmd) == 0 {
		uploadCmd = []string{"python", "push_to_hub_" + uploadScript + ".py"}
	}
	uploader, err := tools.NewUploadCLI(uploadCmd, a.Log)
	if err != nil {
		return nil, err
	}

	var obs sweep.Observer
	if a.Settings.StatusAddr != "" {
		collector := statusapi.NewCollector()
		mux := statusapi.NewMux(collector, statusapi.Options{CORSOrigins: a.Settings.CORSOrigins})
		statusapi.Serve(ctx, a.Settings.StatusAddr, mux, a.Log)
		obs = collector
	}

	return sweep.NewDriver(sweep.Config{
		Sweep:      sweepType,
		ScratchDir: filepath.Join(scratch, sweepType),
		Pause:      a.Settings.Pause(),
		Merger:     merger,
		Uploader:   uploader,
		Logger:     a.Log,
		Observer:   obs,
	})
}
