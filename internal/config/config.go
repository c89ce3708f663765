package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	BaseURL            string   `mapstructure:"base_url"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// Load reads the yml file at path; any value can be overridden with a
// GUILDOPS_ prefixed environment variable (dots become underscores,
// e.g. GUILDOPS_API_PORT). The file is then watched; whenever it
// changes on disk and still parses to a valid config, every onReload
// hook is called with the fresh values. Edits that no longer parse or
// validate are logged and ignored.
func Load(path string, onReload ...func(*AppConfig)) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("GUILDOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	var conf AppConfig
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if err := validate(&conf); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		var next AppConfig
		if err := v.Unmarshal(&next); err != nil {
			zap.L().Warn("ignoring config change",
				zap.String("file", e.Name), zap.Error(err))
			return
		}
		if err := validate(&next); err != nil {
			zap.L().Warn("ignoring config change",
				zap.String("file", e.Name), zap.Error(err))
			return
		}

		zap.L().Info("config file changed",
			zap.String("file", e.Name), zap.String("op", e.Op.String()))
		for _, hook := range onReload {
			hook(&next)
		}
	})
	v.WatchConfig()

	return &conf, nil
}

func validate(conf *AppConfig) error {
	if conf.API == nil || conf.API.JWTSigningKey == "" {
		return fmt.Errorf("jwt signing key is not configured")
	}

	return nil
}
