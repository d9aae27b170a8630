package models

import "time"

// Config contains the configuration of a status run
type Config struct {
	// Sources
	Maintainer string   // Maintainer whose packages are checked, empty for the local database
	All        bool     // Check all installed packages
	DBPath     string   // Pacman database path
	Repos      []string // Repositories the local packages are scoped to
	Keyring    string   // OpenPGP keyring used to verify sync database signatures

	// Services
	RebuilderdURL string
	ArchwebURL    string
	Timeout       time.Duration // Per-request timeout
	UserAgent     string

	// Presentation
	FilterName string  // Raw --filter value
	Filter     *Status // Parsed filter, nil shows every status

	// Inspection
	Inspect  bool
	Pager    string // Pager command, "builtin" for the embedded viewer
	CacheDir string // Log cache directory

	// Logging
	Quiet     bool
	Verbosity int
}

// IsLocal reports whether packages come from the local pacman database.
func (c *Config) IsLocal() bool {
	return c.Maintainer == ""
}
