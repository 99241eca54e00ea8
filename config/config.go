// Package config loads the application configuration from yaml files with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath        = "."
	defaultEnv         = "local"
	defaultDefaultRole = "Administrador"
)

// Config is the root configuration for the service.
type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int `json:"port" yaml:"port"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *PostgresConfig `json:"postgres" yaml:"postgres"`

	JWT *JWTConfig `json:"jwt" yaml:"jwt"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`
}

// Log defines logger output options.
type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// PostgresConfig defines the connection settings for the relational store.
type PostgresConfig struct {
	Host            string        `json:"host" yaml:"host"`
	Port            int           `json:"port" yaml:"port"`
	User            string        `json:"user" yaml:"user"`
	Password        string        `json:"password" yaml:"password"`
	DBName          string        `json:"dbName" yaml:"dbName"`
	SSLMode         string        `json:"sslMode" yaml:"sslMode"`
	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"`
}

// DSN builds a libpq-style connection string.
func (c *PostgresConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslMode)
}

// JWTConfig defines the signing settings for access tokens and the lifetime
// of refresh tokens.
type JWTConfig struct {
	Key               string `json:"key" yaml:"key"`
	Issuer            string `json:"issuer" yaml:"issuer"`
	Audience          string `json:"audience" yaml:"audience"`
	DurationInMinutes int    `json:"durationInMinutes" yaml:"durationInMinutes"`
	RefreshDays       int    `json:"refreshDays" yaml:"refreshDays"`
}

// AuthConfig defines authentication-related configuration. DefaultRole is the
// role attached to every newly registered user, resolved once at startup.
type AuthConfig struct {
	BcryptCost  int    `json:"bcryptCost" yaml:"bcryptCost"`
	DefaultRole string `json:"defaultRole" yaml:"defaultRole"`
}

// New loads the configuration for the environment named by the ENV variable
// (default "local"), looking for <env>.yaml next to the binary and under
// ./config.
func New() (*Config, error) {
	currEnv := os.Getenv("ENV")
	if currEnv == "" {
		currEnv = defaultEnv
	}

	cfg, err := LoadWithEnv[Config](currEnv, "config")
	if err != nil {
		return nil, err
	}

	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Auth.DefaultRole == "" {
		cfg.Auth.DefaultRole = defaultDefaultRole
	}
	if cfg.JWT == nil {
		return nil, errors.New("jwt configuration section is required")
	}
	if cfg.JWT.DurationInMinutes <= 0 {
		cfg.JWT.DurationInMinutes = 15
	}
	if cfg.JWT.RefreshDays <= 0 {
		cfg.JWT.RefreshDays = 10
	}

	return cfg, nil
}

// LoadWithEnv loads <currEnv>.yaml through koanf and applies environment
// variable overrides (FOO_BAR overrides foo.bar, matched case-insensitively).
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Variables without an underscore (ENV, HOME, PATH) carry no
			// section and would clobber whole config sections; skip them.
			if !strings.Contains(k, "_") {
				return "", nil
			}

			// POSTGRES_SSLMODE -> postgres.sslmode; case-insensitive
			// unmarshalling below aligns segments with struct fields.
			return strings.ToLower(strings.ReplaceAll(k, "_", ".")), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}
