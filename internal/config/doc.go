// Package config provides configuration structures and utilities for the
// crawler. It defines the crawl session options, the delay strategy
// selection, and the YAML profile file that lets users keep per-session
// settings outside the command line.
package config
