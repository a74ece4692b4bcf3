package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DB      DBConfig      `mapstructure:"db"`
	Server  ServerConfig  `mapstructure:"server"`
	Auth    AuthConfig    `mapstructure:"auth"`
	NewDay  NewDayConfig  `mapstructure:"newday"`
	Sync    SyncConfig    `mapstructure:"sync"`
	Economy EconomyConfig `mapstructure:"economy"`
	AppHost string        `mapstructure:"host"`
}

type DBConfig struct {
	Source string `mapstructure:"source"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type AuthConfig struct {
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type NewDayConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	PartnerSecret string        `mapstructure:"partner_secret"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type SyncConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type EconomyConfig struct {
	DailyRewardPool   float64 `mapstructure:"daily_reward_pool"`
	TotalNetworkPower float64 `mapstructure:"total_network_power"`
}

func Load() (*Config, error) {
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/configs")
	viper.SetConfigName("settings")
	viper.SetConfigType("yml")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("auth.token_ttl", 7*24*time.Hour)
	viper.SetDefault("sync.interval", 30*time.Second)
	viper.SetDefault("newday.timeout", 10*time.Second)
	viper.SetDefault("economy.daily_reward_pool", 10000)
	viper.SetDefault("economy.total_network_power", 1000000)

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
