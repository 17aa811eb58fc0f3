// Package cli builds the mergescan command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mergescan/internal/config"
)

// NewRootCmd constructs the full command tree. Settings resolve in layers:
// defaults, then environment, then the optional config file, then flags.
func NewRootCmd() *cobra.Command {
	app := &App{Settings: config.Default()}
	var (
		cfgPath  string
		logLevel string
		override config.Settings
		noCUDA   bool
	)

	root := &cobra.Command{
		Use:           "mergescan",
		Short:         "Parameter sweeps for external model-merge tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "Settings file (.yaml/.yml/.json/.toml)")
	pf.StringVar(&logLevel, "log-level", envStr("MERGESCAN_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	pf.StringVar(&override.ScratchDir, "scratch-dir", "", "Directory for generated recipe files")
	pf.StringVar(&override.MergeBin, "merge-bin", "", "Merge tool binary (default mergekit-yaml)")
	pf.StringVar(&override.StatusAddr, "status-addr", "", "Serve /status, /healthz and /metrics on this address")
	pf.IntVar(&override.PauseSeconds, "pause", 0, "Seconds to pause between iterations (default 2)")
	pf.BoolVar(&noCUDA, "no-cuda", false, "Do not pass --cuda to the merge tool")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		s := config.Default()
		if v := os.Getenv("MERGESCAN_HUB_ENDPOINT"); v != "" {
			s.HubEndpoint = v
		}
		if cfgPath != "" {
			fileSettings, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			s = s.Merge(fileSettings)
		}
		s = s.Merge(override)
		if noCUDA {
			off := false
			s.CUDA = &off
		}
		app.Settings = s
		app.Log = newLogger(logLevel)
		return nil
	}

	root.AddCommand(newLinearCmd(app), newTiesCmd(app), newSoupCmd(app))
	return root
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
