package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig tests the default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	c := NewConfig()

	if c.Session != DefaultSession {
		t.Errorf("expected session %q, got %q", DefaultSession, c.Session)
	}
	if c.MaxCrawlDepth != DefaultMaxCrawlDepth {
		t.Errorf("expected depth %d, got %d", DefaultMaxCrawlDepth, c.MaxCrawlDepth)
	}
	if c.DelayStrategy != DelayFixed {
		t.Errorf("expected fixed strategy, got %s", c.DelayStrategy)
	}
	if c.FixedDelay != DefaultFixedDelay {
		t.Errorf("expected fixed delay %s, got %s", DefaultFixedDelay, c.FixedDelay)
	}
	if c.MinDelay != DefaultMinDelay || c.MaxDelay != DefaultMaxDelay {
		t.Errorf("unexpected delay bounds: %s..%s", c.MinDelay, c.MaxDelay)
	}
	if c.BatchSize != DefaultBatchSize {
		t.Errorf("expected batch size %d, got %d", DefaultBatchSize, c.BatchSize)
	}
}

// TestParseDelayStrategy tests strategy name parsing.
func TestParseDelayStrategy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    DelayStrategy
		wantErr bool
	}{
		{name: "fixed", input: "fixed", want: DelayFixed},
		{name: "random", input: "random", want: DelayRandom},
		{name: "adaptive", input: "adaptive", want: DelayAdaptive},
		{name: "mixed case", input: "Adaptive", want: DelayAdaptive},
		{name: "padded", input: "  fixed ", want: DelayFixed},
		{name: "unknown", input: "exponential", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDelayStrategy(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDelayStrategy) {
					t.Errorf("expected ErrInvalidDelayStrategy, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

// TestConfigValidate tests validation rules.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		c := NewConfig()
		c.Seeds = []string{"https://example.com/"}
		return c
	}

	t.Run("valid config passes", func(t *testing.T) {
		t.Parallel()
		if err := valid().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "no seeds",
			mutate:  func(c *Config) { c.Seeds = nil },
			wantErr: ErrNoSeeds,
		},
		{
			name:    "negative depth",
			mutate:  func(c *Config) { c.MaxCrawlDepth = -1 },
			wantErr: ErrInvalidCrawlDepth,
		},
		{
			name:    "unknown strategy",
			mutate:  func(c *Config) { c.DelayStrategy = "exponential" },
			wantErr: ErrInvalidDelayStrategy,
		},
		{
			name:    "negative fixed delay",
			mutate:  func(c *Config) { c.FixedDelay = -time.Second },
			wantErr: ErrInvalidFixedDelay,
		},
		{
			name:    "negative min delay",
			mutate:  func(c *Config) { c.MinDelay = -time.Second },
			wantErr: ErrInvalidDelayBounds,
		},
		{
			name: "max below min",
			mutate: func(c *Config) {
				c.MinDelay = 5 * time.Second
				c.MaxDelay = time.Second
			},
			wantErr: ErrInvalidDelayBounds,
		},
		{
			name:    "zero page load timeout",
			mutate:  func(c *Config) { c.PageLoadTimeout = 0 },
			wantErr: ErrInvalidPageLoadTimeout,
		},
		{
			name:    "zero batch size",
			mutate:  func(c *Config) { c.BatchSize = 0 },
			wantErr: ErrInvalidBatchSize,
		},
		{
			name: "conflicting report formats",
			mutate: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := valid()
			tt.mutate(c)
			if err := c.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestLoadConfigFile tests profile file loading and merging.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads sessions and defaults", func(t *testing.T) {
		t.Parallel()

		content := `
defaults:
  maxCrawlDepth: 5
  delayStrategy: fixed
  fixedDelay: 2s
sessions:
  docs:
    seeds:
      - https://docs.example.com/
    delayStrategy: adaptive
    minDelay: 500ms
    maxDelay: 10s
    offsiteFiltering: true
`
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write profile file: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load profile file: %v", err)
		}

		profile := cf.GetProfile("docs")
		if len(profile.Seeds) != 1 || profile.Seeds[0] != "https://docs.example.com/" {
			t.Errorf("unexpected seeds: %v", profile.Seeds)
		}
		if profile.MaxCrawlDepth != 5 {
			t.Errorf("expected default depth 5, got %d", profile.MaxCrawlDepth)
		}
		if profile.DelayStrategy != "adaptive" {
			t.Errorf("expected adaptive strategy, got %s", profile.DelayStrategy)
		}
		if profile.MinDelay.Std() != 500*time.Millisecond {
			t.Errorf("expected 500ms min delay, got %s", profile.MinDelay.Std())
		}
		if profile.MaxDelay.Std() != 10*time.Second {
			t.Errorf("expected 10s max delay, got %s", profile.MaxDelay.Std())
		}
		if profile.OffsiteFiltering == nil || !*profile.OffsiteFiltering {
			t.Error("expected offsite filtering enabled")
		}
		// The session doesn't set fixedDelay, so the default survives.
		if profile.FixedDelay.Std() != 2*time.Second {
			t.Errorf("expected default 2s fixed delay, got %s", profile.FixedDelay.Std())
		}
	})

	t.Run("unknown session gets defaults", func(t *testing.T) {
		t.Parallel()

		content := `
defaults:
  maxCrawlDepth: 7
`
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write profile file: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load profile file: %v", err)
		}
		if got := cf.GetProfile("nope").MaxCrawlDepth; got != 7 {
			t.Errorf("expected default depth 7, got %d", got)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(":\n  - not yaml"), 0600); err != nil {
			t.Fatalf("failed to write profile file: %v", err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected a parse error")
		}
	})

	t.Run("invalid duration", func(t *testing.T) {
		t.Parallel()

		content := `
defaults:
  fixedDelay: soon
`
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write profile file: %v", err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected a duration parse error")
		}
	})
}

// TestConfigApply tests overlaying a profile onto a config.
func TestConfigApply(t *testing.T) {
	t.Parallel()

	c := NewConfig()
	offsite := true
	c.Apply(Profile{
		Seeds:            []string{"https://example.com/"},
		DelayStrategy:    "random",
		MinDelay:         Duration(2 * time.Second),
		MaxDelay:         Duration(8 * time.Second),
		OffsiteFiltering: &offsite,
	})

	if len(c.Seeds) != 1 {
		t.Errorf("expected seeds applied, got %v", c.Seeds)
	}
	if c.DelayStrategy != DelayRandom {
		t.Errorf("expected random strategy, got %s", c.DelayStrategy)
	}
	if c.MinDelay != 2*time.Second || c.MaxDelay != 8*time.Second {
		t.Errorf("unexpected bounds: %s..%s", c.MinDelay, c.MaxDelay)
	}
	if !c.OffsiteFiltering {
		t.Error("expected offsite filtering enabled")
	}
	// Unset profile fields keep the construction defaults.
	if c.MaxCrawlDepth != DefaultMaxCrawlDepth {
		t.Errorf("expected depth to stay %d, got %d", DefaultMaxCrawlDepth, c.MaxCrawlDepth)
	}
	if c.FixedDelay != DefaultFixedDelay {
		t.Errorf("expected fixed delay to stay %s, got %s", DefaultFixedDelay, c.FixedDelay)
	}
}
