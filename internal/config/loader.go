package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Settings holds runtime parameters shared by all sweep commands.
// Zero values mean "unspecified" and fall back to Default values when merged.
type Settings struct {
	ScratchDir    string   `json:"scratch_dir" yaml:"scratch_dir" toml:"scratch_dir"`
	MergeBin      string   `json:"merge_bin" yaml:"merge_bin" toml:"merge_bin"`
	UploadCommand []string `json:"upload_command" yaml:"upload_command" toml:"upload_command"`
	PauseSeconds  int      `json:"pause_seconds" yaml:"pause_seconds" toml:"pause_seconds"`
	StatusAddr    string   `json:"status_addr" yaml:"status_addr" toml:"status_addr"`
	HubEndpoint   string   `json:"hub_endpoint" yaml:"hub_endpoint" toml:"hub_endpoint"`
	CUDA          *bool    `json:"cuda" yaml:"cuda" toml:"cuda"`
	CORSOrigins   []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// Default returns the settings used when no file and no flags override them.
func Default() Settings {
	return Settings{
		ScratchDir:   "scratch/tmp_yamls",
		MergeBin:     "mergekit-yaml",
		PauseSeconds: 2,
		HubEndpoint:  "https://huggingface.co",
	}
}

// Pause returns the inter-iteration pause as a duration.
func (s Settings) Pause() time.Duration {
	return time.Duration(s.PauseSeconds) * time.Second
}

// CUDAEnabled reports whether GPU flags should be passed to the merge tool.
// Unset means enabled, matching the original invocation.
func (s Settings) CUDAEnabled() bool {
	return s.CUDA == nil || *s.CUDA
}

// Merge overlays non-zero fields of o on top of s and returns the result.
func (s Settings) Merge(o Settings) Settings {
	if o.ScratchDir != "" {
		s.ScratchDir = o.ScratchDir
	}
	if o.MergeBin != "" {
		s.MergeBin = o.MergeBin
	}
	if len(o.UploadCommand) > 0 {
		s.UploadCommand = append([]string(nil), o.UploadCommand...)
	}
	if o.PauseSeconds != 0 {
		s.PauseSeconds = o.PauseSeconds
	}
	if o.StatusAddr != "" {
		s.StatusAddr = o.StatusAddr
	}
	if o.HubEndpoint != "" {
		s.HubEndpoint = o.HubEndpoint
	}
	if o.CUDA != nil {
		s.CUDA = o.CUDA
	}
	if len(o.CORSOrigins) > 0 {
		s.CORSOrigins = append([]string(nil), o.CORSOrigins...)
	}
	return s
}

// Load reads a settings file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Settings, error) {
	var s Settings
	if path == "" {
		return s, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &s); err != nil {
			return s, err
		}
	case ".json":
		if err := json.Unmarshal(b, &s); err != nil {
			return s, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &s); err != nil {
			return s, err
		}
	default:
		return s, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return s, nil
}
