package config

// Profile holds per-session settings loaded from the profile file.
// A profile lets users keep recurring crawl setups (seeds, depth, delay
// tuning) out of the command line.
type Profile struct {
	// Seeds are the seed URLs for this session.
	Seeds []string `yaml:"seeds,omitempty"`

	// MaxCrawlDepth overrides the global maximum crawl depth.
	// If zero, the global depth is used.
	MaxCrawlDepth int `yaml:"maxCrawlDepth,omitempty"`

	// OffsiteFiltering restricts the session to the seed domains.
	// A nil value means the global setting is used.
	OffsiteFiltering *bool `yaml:"offsiteFiltering,omitempty"`

	// DelayStrategy overrides the delay strategy (fixed, random, adaptive).
	DelayStrategy string `yaml:"delayStrategy,omitempty"`

	// FixedDelay overrides the fixed strategy's delay.
	FixedDelay Duration `yaml:"fixedDelay,omitempty"`

	// MinDelay overrides the lower delay bound.
	MinDelay Duration `yaml:"minDelay,omitempty"`

	// MaxDelay overrides the upper delay bound.
	MaxDelay Duration `yaml:"maxDelay,omitempty"`
}

// File represents the structure of the .serritor profile file.
type File struct {
	// Sessions maps session names to their profiles.
	Sessions map[string]Profile `yaml:"sessions,omitempty"`

	// Defaults contains the default profile applied to all sessions
	// unless overridden in the session-specific profile.
	Defaults Profile `yaml:"defaults,omitempty"`
}

// GetProfile returns the profile for a session, merging the session's
// settings over the file's defaults. Unset session fields fall back to
// the default profile's values.
func (cf *File) GetProfile(session string) Profile {
	result := cf.Defaults

	if profile, ok := cf.Sessions[session]; ok {
		if len(profile.Seeds) > 0 {
			result.Seeds = profile.Seeds
		}
		if profile.MaxCrawlDepth != 0 {
			result.MaxCrawlDepth = profile.MaxCrawlDepth
		}
		if profile.OffsiteFiltering != nil {
			result.OffsiteFiltering = profile.OffsiteFiltering
		}
		if profile.DelayStrategy != "" {
			result.DelayStrategy = profile.DelayStrategy
		}
		if profile.FixedDelay != 0 {
			result.FixedDelay = profile.FixedDelay
		}
		if profile.MinDelay != 0 {
			result.MinDelay = profile.MinDelay
		}
		if profile.MaxDelay != 0 {
			result.MaxDelay = profile.MaxDelay
		}
	}

	return result
}

// Apply overlays a profile's settings onto a config. Only fields the
// profile actually sets are copied, so CLI defaults survive.
func (c *Config) Apply(profile Profile) {
	if len(profile.Seeds) > 0 {
		c.Seeds = profile.Seeds
	}
	if profile.MaxCrawlDepth != 0 {
		c.MaxCrawlDepth = profile.MaxCrawlDepth
	}
	if profile.OffsiteFiltering != nil {
		c.OffsiteFiltering = *profile.OffsiteFiltering
	}
	if profile.DelayStrategy != "" {
		c.DelayStrategy = DelayStrategy(profile.DelayStrategy)
	}
	if profile.FixedDelay != 0 {
		c.FixedDelay = profile.FixedDelay.Std()
	}
	if profile.MinDelay != 0 {
		c.MinDelay = profile.MinDelay.Std()
	}
	if profile.MaxDelay != 0 {
		c.MaxDelay = profile.MaxDelay.Std()
	}
}
