package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadFS(afero.NewMemMapFs(), "missing.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" || cfg.Quiz.TTL != 10*time.Minute || cfg.Document.Indent != 4 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Redis.Addr != "" || cfg.Postgres.URL != "" || cfg.Update.Check {
		t.Fatalf("optional backends must be off by default: %+v", cfg)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	fsys := afero.NewMemMapFs()
	yaml := `
env: production
log_level: warn
server:
  addr: 127.0.0.1:9090
  quiz_dir: /srv/quizzes
redis:
  addr: localhost:6379
  ttl: 1h
document:
  indent: 2
`
	if err := afero.WriteFile(fsys, "config.yaml", []byte(yaml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("QUIZPROG_QUIZ_TTL", "90s")

	cfg, err := LoadFS(fsys, "config.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "production" || cfg.LogLevel != "warn" || cfg.Server.QuizDir != "/srv/quizzes" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Redis.TTL != time.Hour || cfg.Document.Indent != 2 {
		t.Fatalf("unexpected redis/document config: %+v", cfg)
	}
	if cfg.Quiz.TTL != 90*time.Second {
		t.Fatalf("env override not applied: %v", cfg.Quiz.TTL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "config.yaml", []byte("document:\n  indent: -1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFS(fsys, "config.yaml"); err == nil {
		t.Fatalf("expected negative indent rejected")
	}
	if err := afero.WriteFile(fsys, "broken.yaml", []byte("server: [\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFS(fsys, "broken.yaml"); err == nil {
		t.Fatalf("expected malformed yaml rejected")
	}
}
