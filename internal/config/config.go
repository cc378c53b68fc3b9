// Package config provides Viper-based configuration loading for the melee simulator.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings for the combat journal.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry tracing settings.
type TelemetryConfig struct {
	// Enabled turns on span export. When false a noop tracer is installed.
	Enabled bool `mapstructure:"enabled"`
	// Endpoint is the OTLP/HTTP collector address, "host:port".
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// ContentConfig locates the YAML definitions loaded at startup.
type ContentConfig struct {
	WeaponsDir  string `mapstructure:"weapons_dir"`
	ArmourDir   string `mapstructure:"armour_dir"`
	MonstersDir string `mapstructure:"monsters_dir"`
	StatusesDir string `mapstructure:"statuses_dir"`
	// RulesDir holds the species/ and jobs/ subdirectories.
	RulesDir string `mapstructure:"rules_dir"`
}

// ScriptingConfig holds Lua settings for artefact hooks.
type ScriptingConfig struct {
	// UnrandDir is the directory of <unrand>.lua hook scripts.
	UnrandDir string `mapstructure:"unrand_dir"`
	// InstructionLimit caps the VM instructions a single hook may run.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// CombatConfig exposes the engine's tunable knobs.
type CombatConfig struct {
	AuxAttacks      bool `mapstructure:"aux_attacks"`
	RiposteEnabled  bool `mapstructure:"riposte_enabled"`
	MaxChildAttacks int  `mapstructure:"max_child_attacks"`
	HitWeak         int  `mapstructure:"hit_weak"`
	HitMed          int  `mapstructure:"hit_med"`
	HitStrong       int  `mapstructure:"hit_strong"`
	// JournalEnabled writes every resolved attack to the database.
	JournalEnabled bool `mapstructure:"journal_enabled"`
	// MaxRounds bounds a single duel.
	MaxRounds int `mapstructure:"max_rounds"`
}

// Config is the top-level application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Content   ContentConfig   `mapstructure:"content"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Combat    CombatConfig    `mapstructure:"combat"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if c.Combat.JournalEnabled {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateTelemetry(c.Telemetry); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Scripting.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", c.Scripting.InstructionLimit))
	}
	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateTelemetry(t TelemetryConfig) error {
	var errs []string
	if t.SampleRatio < 0 || t.SampleRatio > 1 {
		errs = append(errs, fmt.Sprintf("telemetry.sample_ratio must be in [0, 1], got %g", t.SampleRatio))
	}
	if t.Enabled {
		if t.Endpoint == "" {
			errs = append(errs, "telemetry.endpoint must not be empty when telemetry is enabled")
		}
		if t.ServiceName == "" {
			errs = append(errs, "telemetry.service_name must not be empty when telemetry is enabled")
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var missing []string
	for _, d := range []struct{ key, dir string }{
		{"weapons_dir", c.WeaponsDir},
		{"armour_dir", c.ArmourDir},
		{"monsters_dir", c.MonstersDir},
		{"statuses_dir", c.StatusesDir},
		{"rules_dir", c.RulesDir},
	} {
		if d.dir == "" {
			missing = append(missing, "content."+d.key)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return errors.New(strings.Join(missing, ", ") + " must not be empty")
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.MaxChildAttacks < 1 {
		errs = append(errs, fmt.Sprintf("combat.max_child_attacks must be >= 1, got %d", c.MaxChildAttacks))
	}
	if c.HitWeak < 1 || c.HitMed <= c.HitWeak || c.HitStrong <= c.HitMed {
		errs = append(errs, fmt.Sprintf("combat hit thresholds must satisfy 0 < hit_weak < hit_med < hit_strong, got %d/%d/%d",
			c.HitWeak, c.HitMed, c.HitStrong))
	}
	if c.MaxRounds < 1 {
		errs = append(errs, fmt.Sprintf("combat.max_rounds must be >= 1, got %d", c.MaxRounds))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with MELEE_ prefix
	v.SetEnvPrefix("MELEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadDefaults builds a Config from defaults and MELEE_ environment overrides
// alone, for runs without a config file.
//
// Postcondition: Returns a valid Config or a non-nil error.
func LoadDefaults() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MELEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "melee")
	v.SetDefault("database.password", "melee")
	v.SetDefault("database.name", "melee")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "localhost:4318")
	v.SetDefault("telemetry.insecure", true)
	v.SetDefault("telemetry.service_name", "meleesim")
	v.SetDefault("telemetry.sample_ratio", 1.0)

	v.SetDefault("content.weapons_dir", "content/items/weapons")
	v.SetDefault("content.armour_dir", "content/items/armour")
	v.SetDefault("content.monsters_dir", "content/monsters")
	v.SetDefault("content.statuses_dir", "content/statuses")
	v.SetDefault("content.rules_dir", "content/rules")

	v.SetDefault("scripting.unrand_dir", "content/scripts/unrands")
	v.SetDefault("scripting.instruction_limit", 100000)

	v.SetDefault("combat.aux_attacks", true)
	v.SetDefault("combat.riposte_enabled", true)
	v.SetDefault("combat.max_child_attacks", 16)
	v.SetDefault("combat.hit_weak", 7)
	v.SetDefault("combat.hit_med", 18)
	v.SetDefault("combat.hit_strong", 36)
	v.SetDefault("combat.journal_enabled", false)
	v.SetDefault("combat.max_rounds", 200)
}
