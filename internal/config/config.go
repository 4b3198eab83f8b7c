package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort        int    `mapstructure:"APP_PORT"`
	DatabasePath   string `mapstructure:"DATABASE_PATH"`
	GatewayURL     string `mapstructure:"GATEWAY_URL"`
	GatewayAPIKey  string `mapstructure:"GATEWAY_API_KEY"`
	DefaultModel   string `mapstructure:"DEFAULT_MODEL"`
	RetrieveTopK   int    `mapstructure:"RETRIEVE_TOP_K"`
	MaxUploadBytes int64  `mapstructure:"MAX_UPLOAD_BYTES"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("DATABASE_PATH", "./data/chatwithme.db")
	viper.SetDefault("GATEWAY_URL", "http://localhost:4100")
	viper.SetDefault("GATEWAY_API_KEY", "")
	viper.SetDefault("DEFAULT_MODEL", "gpt-5-nano")
	viper.SetDefault("RETRIEVE_TOP_K", 3)
	viper.SetDefault("MAX_UPLOAD_BYTES", 20<<20)
	viper.SetDefault("LOG_LEVEL", "INFO")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
