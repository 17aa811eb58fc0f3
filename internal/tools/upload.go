package tools

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Uploader publishes a merged model directory, optionally tagged with a
// revision label.
type Uploader interface {
	Upload(ctx context.Context, path, revision string) error
}

// UploadCLI invokes the external upload script as a subprocess, e.g.
// ["python", "push_to_hub_linear.py"].
type UploadCLI struct {
	Command []string
	Log     zerolog.Logger
	Runner  Runner // defaults to Run
}

func NewUploadCLI(command []string, log zerolog.Logger) (*UploadCLI, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("empty upload command")
	}
	return &UploadCLI{Command: command, Log: log, Runner: Run}, nil
}

func (u *UploadCLI) args(path, revision string) []string {
	args := append(append([]string(nil), u.Command[1:]...), "--path", path)
	if revision != "" {
		args = append(args, "--revision", revision)
	}
	return args
}

func (u *UploadCLI) Upload(ctx context.Context, path, revision string) error {
	args := u.args(path, revision)
	u.Log.Info().Str("bin", u.Command[0]).Strs("args", args).Msg("executing upload")
	run := u.Runner
	if run == nil {
		run = Run
	}
	if err := run(ctx, Cmd{Path: u.Command[0], Args: args, Stream: true}); err != nil {
		return &ToolError{Tool: u.Command[0], Args: args, Err: err}
	}
	return nil
}
