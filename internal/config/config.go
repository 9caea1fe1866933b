package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// DefaultPath is where the config file is looked for when --config is not given.
const DefaultPath = "config/config.yaml"

type Config struct {
	Env      string   `mapstructure:"env" validate:"oneof=local development production"`
	LogLevel string   `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	Server   Server   `mapstructure:"server"`
	Redis    Redis    `mapstructure:"redis"`
	Postgres Postgres `mapstructure:"postgres"`
	Quiz     Quiz     `mapstructure:"quiz"`
	Update   Update   `mapstructure:"update"`
	Document Document `mapstructure:"document"`
}

// Server configures the websocket playback bridge.
type Server struct {
	Addr    string `mapstructure:"addr" validate:"required,hostname_port"`
	QuizDir string `mapstructure:"quiz_dir" validate:"required"`
}

// Redis is optional; an empty Addr keeps caches and sessions in memory.
type Redis struct {
	Addr     string        `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db" validate:"gte=0"`
	TTL      time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

// Postgres is optional; an empty URL serves quizzes from Server.QuizDir.
type Postgres struct {
	URL string `mapstructure:"url"`
}

type Quiz struct {
	TTL time.Duration `mapstructure:"ttl" validate:"gt=0"`
}

// Update configures the release check.
type Update struct {
	Check   bool          `mapstructure:"check"`
	URL     string        `mapstructure:"url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// Document controls how quiz files are written.
type Document struct {
	Indent int `mapstructure:"indent" validate:"gte=0,lte=8"`
}

// Load reads the YAML file at path from the OS filesystem.
func Load(path string) (Config, error) {
	return LoadFS(afero.NewOsFs(), path)
}

// LoadFS reads configuration from path on fsys, then QUIZPROG_* environment
// variables. A missing file is not an error; every key has a default.
func LoadFS(fsys afero.Fs, path string) (Config, error) {
	v := viper.New()
	v.SetFs(fsys)
	v.SetConfigType("yaml")
	if path == "" {
		path = DefaultPath
	}
	v.SetConfigFile(path)

	v.SetDefault("env", "local")
	v.SetDefault("log_level", "info")
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.quiz_dir", "quizzes")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "30m")
	v.SetDefault("postgres.url", "")
	v.SetDefault("quiz.ttl", "10m")
	v.SetDefault("update.check", false)
	v.SetDefault("update.url", "https://api.github.com/repos/gamingwithevets/quizprog-gui/releases/latest")
	v.SetDefault("update.timeout", "5s")
	v.SetDefault("document.indent", 4)

	v.SetEnvPrefix("QUIZPROG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
