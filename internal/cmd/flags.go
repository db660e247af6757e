package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/gravitrone/quorum/cli/internal/api"
	"github.com/gravitrone/quorum/cli/internal/config"
)

// GlobalFlags are the root persistent flags. Set values override the config
// file for this run only.
type GlobalFlags struct {
	BaseURL  string
	MaxTags  int
	Debounce time.Duration
}

// Register binds the flags to fs.
func (f *GlobalFlags) Register(fs *pflag.FlagSet) {
	fs.StringVar(&f.BaseURL, "base-url", "", "API base URL (default from config or "+api.DefaultBaseURL+")")
	fs.IntVar(&f.MaxTags, "max-tags", 0, "maximum tags per question")
	fs.DurationVar(&f.Debounce, "debounce", 0, "quiet period before a tag search fires")
}

// Apply returns a copy of cfg with the flag overrides applied. cfg may be nil.
func (f GlobalFlags) Apply(cfg *config.Config) (*config.Config, error) {
	out := config.Config{}
	if cfg != nil {
		out = *cfg
	}
	if base := strings.TrimSpace(f.BaseURL); base != "" {
		out.BaseURL = strings.TrimRight(base, "/")
	}
	if f.MaxTags != 0 {
		out.MaxTags = f.MaxTags
	}
	if f.Debounce != 0 {
		out.DebounceMS = int(f.Debounce / time.Millisecond)
		if f.Debounce > 0 && out.DebounceMS == 0 {
			out.DebounceMS = 1
		}
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return &out, nil
}

// Client builds an API client for cfg.
func Client(cfg *config.Config) *api.Client {
	apiKey := ""
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	return api.NewClient(cfg.APIBaseURL(api.DefaultBaseURL), apiKey)
}
