package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"resume-pipeline/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load()

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxRetries, convey.ShouldEqual, 3)
				convey.So(cfg.BaseDelayMs, convey.ShouldEqual, 1000)
				convey.So(cfg.PipelineTimeoutSeconds, convey.ShouldEqual, 120)
				convey.So(cfg.MinContentWords, convey.ShouldEqual, 50)
				convey.So(cfg.RecommendLimit, convey.ShouldEqual, 10)
				convey.So(cfg.Providers, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("RESUME_ADDR", ":9090")
			_ = os.Setenv("RESUME_MAX_RETRIES", "5")
			_ = os.Setenv("RESUME_BASE_DELAY_MS", "250")
			_ = os.Setenv("RESUME_RECOMMEND_LIMIT", "3")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.MaxRetries, convey.ShouldEqual, 5)
				convey.So(cfg.BaseDelayMs, convey.ShouldEqual, 250)
				convey.So(cfg.RecommendLimit, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := filepath.Join(t.TempDir(), "config.yaml")
			yaml := `
addr: ":7070"
max_retries: 4
providers:
  - id: openai
    api_key: key-1
    model: gpt-4o-mini
  - id: gemini
    api_key: key-2
    model: gemini-2.0-flash
`
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("RESUME_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should load file values and provider order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.MaxRetries, convey.ShouldEqual, 4)
				convey.So(len(cfg.Providers), convey.ShouldEqual, 2)
				convey.So(cfg.Providers[0].ID, convey.ShouldEqual, "openai")
				convey.So(cfg.Providers[1].ID, convey.ShouldEqual, "gemini")
			})
		})

		convey.Convey("When only provider API keys are in the environment", func() {
			_ = os.Setenv("OPENAI_API_KEY", "sk-test")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then a default provider chain is derived", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(cfg.Providers), convey.ShouldEqual, 1)
				convey.So(cfg.Providers[0].ID, convey.ShouldEqual, "openai")
				convey.So(cfg.Providers[0].APIKey, convey.ShouldEqual, "sk-test")
			})
		})

		convey.Convey("When DATABASE_URL is set without the RESUME_ prefix", func() {
			_ = os.Setenv("DATABASE_URL", "postgres://localhost/resume")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it is picked up as a fallback", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DatabaseURL, convey.ShouldEqual, "postgres://localhost/resume")
			})
		})
	})
}

// clearConfigEnvVars unsets every variable the loader reads. An empty
// RESUME_* variable would still override a default, so unset beats
// setting "".
func clearConfigEnvVars() {
	for _, key := range []string{
		"RESUME_CONFIG", "RESUME_ADDR", "RESUME_MAX_RETRIES", "RESUME_BASE_DELAY_MS",
		"RESUME_RECOMMEND_LIMIT", "RESUME_DATABASE_URL", "DATABASE_URL",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY",
	} {
		_ = os.Unsetenv(key)
	}
}
