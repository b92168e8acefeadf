package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile       = ".env"
	defaultPort          = "8080"
	defaultReadTimeout   = 15 * time.Second
	defaultWriteTimeout  = 30 * time.Second
	defaultIdleTimeout   = 120 * time.Second
	defaultTariffLatency = 1500 * time.Millisecond
	defaultSMTPHost      = "smtp.gmail.com"
	defaultSMTPPort      = "587"
	defaultStaticDir     = "static"
)

// Config captures runtime configuration organised by concern.
type Config struct {
	Server  ServerConfig
	Tariff  TariffConfig
	Content ContentConfig
	Mail    MailConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port         string
	Mode         string
	StaticDir    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// TariffConfig configures the calculator.
type TariffConfig struct {
	// Latency paces results in the UI; zero returns immediately.
	Latency time.Duration
	// DBPath points at a sqlite rate store. Empty means built-in tables.
	DBPath string
}

// ContentConfig locates the site configuration file.
type ContentConfig struct {
	// File overrides the embedded site.yaml when set.
	File string
}

// MailConfig holds SMTP settings for the contact form.
type MailConfig struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

// Enabled reports whether credentials are present.
func (m MailConfig) Enabled() bool {
	return m.User != "" && m.Pass != ""
}

// ValidationError lists keys whose values could not be used.
type ValidationError struct {
	Problems map[string]string
}

func (e *ValidationError) Error() string {
	keys := e.Fields()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Problems[k]))
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

// Fields returns the offending keys in sorted order.
func (e *ValidationError) Fields() []string {
	keys := make([]string, 0, len(e.Problems))
	for k := range e.Problems {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type options struct {
	envFile   string
	envMap    map[string]string
	systemEnv bool
}

// Option customises Load.
type Option func(*options)

// WithEnvFile reads variables from path instead of ".env".
func WithEnvFile(path string) Option {
	return func(o *options) { o.envFile = path }
}

// WithEnvMap supplies variables that take precedence over every other source.
func WithEnvMap(values map[string]string) Option {
	return func(o *options) { o.envMap = values }
}

// WithoutSystemEnv ignores the process environment.
func WithoutSystemEnv() Option {
	return func(o *options) { o.systemEnv = false }
}

// Load resolves configuration from explicit values, the process environment
// and the .env file, in that order of precedence. A missing .env file is
// not an error.
func Load(opts ...Option) (Config, error) {
	o := options{envFile: defaultEnvFile, systemEnv: true}
	for _, opt := range opts {
		opt(&o)
	}

	fileValues := map[string]string{}
	if o.envFile != "" {
		values, err := godotenv.Read(o.envFile)
		switch {
		case err == nil:
			fileValues = values
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read %s: %w", o.envFile, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := o.envMap[key]; ok {
			return v, true
		}
		if o.systemEnv {
			if v, ok := os.LookupEnv(key); ok {
				return v, true
			}
		}
		v, ok := fileValues[key]
		return v, ok
	}

	problems := map[string]string{}
	cfg := Config{
		Server: ServerConfig{
			Port:         stringWithDefault(lookup, "PORT", defaultPort),
			Mode:         stringWithDefault(lookup, "GIN_MODE", "release"),
			StaticDir:    stringWithDefault(lookup, "STATIC_DIR", defaultStaticDir),
			ReadTimeout:  durationWithDefault(lookup, problems, "SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, problems, "SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, problems, "SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Tariff: TariffConfig{
			Latency: durationWithDefault(lookup, problems, "TARIFF_LATENCY", defaultTariffLatency),
			DBPath:  stringWithDefault(lookup, "TARIFF_DB_PATH", ""),
		},
		Content: ContentConfig{
			File: stringWithDefault(lookup, "CONTENT_FILE", ""),
		},
		Mail: MailConfig{
			Host: stringWithDefault(lookup, "SMTP_HOST", defaultSMTPHost),
			Port: stringWithDefault(lookup, "SMTP_PORT", defaultSMTPPort),
			User: stringWithDefault(lookup, "SMTP_USER", ""),
			Pass: stringWithDefault(lookup, "SMTP_PASS", ""),
			To:   stringWithDefault(lookup, "TO_EMAIL", ""),
		},
	}

	if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		problems["PORT"] = "must be numeric"
	}
	switch cfg.Server.Mode {
	case "debug", "release", "test":
	default:
		problems["GIN_MODE"] = "must be debug, release or test"
	}
	if cfg.Tariff.Latency < 0 {
		problems["TARIFF_LATENCY"] = "must not be negative"
	}
	if cfg.Mail.Enabled() && cfg.Mail.To == "" {
		problems["TO_EMAIL"] = "required when SMTP credentials are set"
	}

	if len(problems) > 0 {
		return Config{}, &ValidationError{Problems: problems}
	}
	return cfg, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), problems map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		problems[key] = "must be a duration such as 1500ms"
		return fallback
	}
	return d
}
