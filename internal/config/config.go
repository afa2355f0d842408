// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Layering and validation live in Load.
// - External errors are wrapped with this package's sentinel kinds.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// CatalogPath points at the JSON or YAML item catalog.
	CatalogPath string `koanf:"catalog_path" validate:"required"`

	// Category keeps only catalog records tagged with it. Empty keeps all.
	Category string `koanf:"category"`

	// IconTemplate builds item icon URLs; {code} is the lower-cased code.
	IconTemplate string `koanf:"icon_template" validate:"required"`

	// NoteParent appends the parent's name to records that have one.
	NoteParent bool `koanf:"note_parent"`

	// InitialRating is the rating every new item starts from.
	InitialRating float64 `koanf:"initial_rating" validate:"gt=0"`

	// MatchTTLSeconds is how long an issued match stays resolvable.
	MatchTTLSeconds int `koanf:"match_ttl_seconds" validate:"gt=0"`

	// MaxPendingMatches caps the pending match table.
	MaxPendingMatches int `koanf:"max_pending_matches" validate:"gt=0"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit" validate:"gt=0"`

	// SnapshotBackend selects persistence: file, sqlite or none.
	SnapshotBackend string `koanf:"snapshot_backend" validate:"oneof=file sqlite none"`

	// SnapshotPath is the save file or database path.
	SnapshotPath string `koanf:"snapshot_path" validate:"required_unless=SnapshotBackend none"`

	// SnapshotKeep is the number of previous generations kept.
	SnapshotKeep int `koanf:"snapshot_keep" validate:"gte=0"`

	// SnapshotSchedule is the cron spec for periodic saves.
	SnapshotSchedule string `koanf:"snapshot_schedule" validate:"required_unless=SnapshotBackend none"`

	// SweepIntervalSeconds is how often expired matches are dropped.
	SweepIntervalSeconds int `koanf:"sweep_interval_seconds" validate:"gt=0"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		CatalogPath:          "flags.json",
		IconTemplate:         "img/flag/{code}.svg",
		NoteParent:           true,
		InitialRating:        1500,
		MatchTTLSeconds:      3600,
		MaxPendingMatches:    100_000,
		MaxLeaderboardLimit:  500,
		SnapshotBackend:      "file",
		SnapshotPath:         "save.json",
		SnapshotKeep:         3,
		SnapshotSchedule:     "@every 8h",
		SweepIntervalSeconds: 60,
	}
}

// MatchTTL returns MatchTTLSeconds as a duration.
func (c *Config) MatchTTL() time.Duration {
	return time.Duration(c.MatchTTLSeconds) * time.Second
}

// SweepInterval returns SweepIntervalSeconds as a duration.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}
