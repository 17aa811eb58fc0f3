package tools

import (
	"context"

	"github.com/rs/zerolog"
)

// Merger merges a recipe into an output directory. Any implementation that
// honors the exit contract works; the process one shells out to mergekit.
type Merger interface {
	Merge(ctx context.Context, recipePath, outputDir string) error
}

// MergeOptions selects the fixed flags passed to the merge tool.
type MergeOptions struct {
	CUDA            bool
	TrustRemoteCode bool
}

// MergeCLI invokes the external merge tool as a subprocess. One atomic call,
// no retries.
type MergeCLI struct {
	Bin    string
	Opts   MergeOptions
	Log    zerolog.Logger
	Runner Runner // defaults to Run
}

func NewMergeCLI(bin string, opts MergeOptions, log zerolog.Logger) *MergeCLI {
	return &MergeCLI{Bin: bin, Opts: opts, Log: log, Runner: Run}
}

func (m *MergeCLI) args(recipePath, outputDir string) []string {
	args := []string{recipePath, outputDir}
	if m.Opts.CUDA {
		args = append(args, "--cuda")
	}
	if m.Opts.TrustRemoteCode {
		args = append(args, "--trust-remote-code")
	}
	return args
}

func (m *MergeCLI) Merge(ctx context.Context, recipePath, outputDir string) error {
	args := m.args(recipePath, outputDir)
	m.Log.Info().Str("bin", m.Bin).Strs("args", args).Msg("executing merge")
	run := m.Runner
	if run == nil {
		run = Run
	}
	if err := run(ctx, Cmd{Path: m.Bin, Args: args, Stream: true}); err != nil {
		return &ToolError{Tool: m.Bin, Args: args, Err: err}
	}
	return nil
}
