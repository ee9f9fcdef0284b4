package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sampleConfig struct {
	HTTPAddr string        `envconfig:"HTTP_ADDR" default:":8080"`
	CacheTTL time.Duration `split_words:"true" default:"5m"`
	Seed     int64         `default:"0"`
}

func TestExportEnvFileKeepsProcessValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "CFGTEST_HTTP_ADDR=:9090\nCFGTEST_SEED=42\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	t.Setenv("CFGTEST_SEED", "7")
	t.Setenv("CFGTEST_HTTP_ADDR", "")
	os.Unsetenv("CFGTEST_HTTP_ADDR")

	if err := exportEnvFile(path); err != nil {
		t.Fatalf("exportEnvFile() error = %v", err)
	}
	if got := os.Getenv("CFGTEST_HTTP_ADDR"); got != ":9090" {
		t.Fatalf("CFGTEST_HTTP_ADDR = %q, want value from file", got)
	}
	if got := os.Getenv("CFGTEST_SEED"); got != "7" {
		t.Fatalf("CFGTEST_SEED = %q, want process value", got)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	t.Setenv("CFGTEST2_SEED", "9")

	conf, err := New[sampleConfig]("CFGTEST2")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.HTTPAddr != ":8080" || conf.CacheTTL != 5*time.Minute || conf.Seed != 9 {
		t.Fatalf("New() = %+v", conf)
	}
}

func TestExportEnvFileIfExistsIgnoresMissing(t *testing.T) {
	t.Parallel()

	if err := exportEnvFileIfExists(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("exportEnvFileIfExists() error = %v", err)
	}
}
