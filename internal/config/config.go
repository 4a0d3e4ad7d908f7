package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env                string        `mapstructure:"ENV"`
	Port               string        `mapstructure:"PORT"`
	DatabaseURL        string        `mapstructure:"DATABASE_URL"`
	AdminKey           string        `mapstructure:"ADMIN_KEY"`
	AssistantBaseURL   string        `mapstructure:"ASSISTANT_BASE_URL"`
	AssistantModel     string        `mapstructure:"ASSISTANT_MODEL"`
	AssistantAPIKey    string        `mapstructure:"ASSISTANT_API_KEY"`
	AssistantMaxTokens int           `mapstructure:"ASSISTANT_MAX_TOKENS"`
	CORSAllowed        string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout     time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	MaxUploadSizeMB    int64         `mapstructure:"MAX_UPLOAD_MB"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("REQUEST_TIMEOUT", "60s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MAX_UPLOAD_MB", 20)
	v.SetDefault("ASSISTANT_MAX_TOKENS", 2048)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
