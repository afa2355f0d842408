package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/flagrank/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.SnapshotBackend, convey.ShouldEqual, "file")
				convey.So(cfg.MatchTTLSeconds, convey.ShouldEqual, 3600)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("FLAGRANK_ADDR", ":8080")
			_ = os.Setenv("FLAGRANK_MATCH_TTL_SECONDS", "120")
			_ = os.Setenv("FLAGRANK_NOTE_PARENT", "false")
			_ = os.Setenv("FLAGRANK_SNAPSHOT_BACKEND", "sqlite")
			_ = os.Setenv("FLAGRANK_INITIAL_RATING", "1200.5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MatchTTLSeconds, convey.ShouldEqual, 120)
				convey.So(cfg.NoteParent, convey.ShouldBeFalse)
				convey.So(cfg.SnapshotBackend, convey.ShouldEqual, "sqlite")
				convey.So(cfg.InitialRating, convey.ShouldEqual, 1200.5)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
# flags of the world
addr: ":9090"
catalog_path: "data/flags.json"
category: "world"
max_pending_matches: 500
snapshot_keep: 5
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FLAGRANK_CONFIG", tmpFile)
			_ = os.Setenv("FLAGRANK_ADDR", ":8080") // overrides the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")                 // Overridden by env
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "data/flags.json") // From file
				convey.So(cfg.Category, convey.ShouldEqual, "world")              // From file
				convey.So(cfg.MaxPendingMatches, convey.ShouldEqual, 500)         // From file
				convey.So(cfg.SnapshotKeep, convey.ShouldEqual, 5)                // From file
				convey.So(cfg.MatchTTLSeconds, convey.ShouldEqual, 3600)          // From defaults
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FLAGRANK_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("FLAGRANK_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("FLAGRANK_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "Addr")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("FLAGRANK_MATCH_TTL_SECONDS", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"FLAGRANK_CONFIG",
		"FLAGRANK_ADDR",
		"FLAGRANK_MATCH_TTL_SECONDS",
		"FLAGRANK_NOTE_PARENT",
		"FLAGRANK_SNAPSHOT_BACKEND",
		"FLAGRANK_INITIAL_RATING",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "flagrank-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
