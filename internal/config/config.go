package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	MinPlayers int `mapstructure:"min_players"`
	MaxPlayers int `mapstructure:"max_players"`
	MaxGames   int `mapstructure:"max_games"`

	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	BroadcastTimeout time.Duration `mapstructure:"broadcast_timeout"`
	TurnInterval     time.Duration `mapstructure:"turn_interval"`
	GameRetention    time.Duration `mapstructure:"game_retention"`
	ClientTimeout    time.Duration `mapstructure:"client_timeout"`
	// 固定随机种子，只用于复现问题，0 表示每局随机
	Seed uint64 `mapstructure:"seed"`

	// 为空时不保存结果
	DBPath        string `mapstructure:"db_path"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

const ENV_PREFIX = "CLUELESS"

var cfg *AppConfig

func GetConfig() *AppConfig {
	if cfg == nil {
		cfg = InitConfig()
	}

	return cfg
}

func InitConfig() *AppConfig {
	// .env 文件是可选的
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("app_config")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("加载配置失败: %w", err))
		}
	}

	var config AppConfig

	if err := v.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("解析配置失败: %w", err))
	}

	if err := config.Validate(); err != nil {
		panic(fmt.Errorf("配置无效: %w", err))
	}

	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 5000)
	v.SetDefault("log_level", "info")

	v.SetDefault("min_players", 3)
	v.SetDefault("max_players", 6)
	v.SetDefault("max_games", 16)

	v.SetDefault("request_timeout", "60s")
	v.SetDefault("broadcast_timeout", "5s")
	v.SetDefault("turn_interval", "100ms")
	v.SetDefault("game_retention", "30m")
	v.SetDefault("client_timeout", "10m")
	v.SetDefault("seed", 0)

	v.SetDefault("db_path", "clueless.db")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
}

func (c *AppConfig) Validate() error {
	if c.MinPlayers < 1 {
		return fmt.Errorf("min_players must be positive, got %d", c.MinPlayers)
	}
	if c.MaxPlayers < c.MinPlayers {
		return fmt.Errorf("max_players %d is below min_players %d", c.MaxPlayers, c.MinPlayers)
	}
	if c.MaxPlayers > 6 {
		return fmt.Errorf("max_players %d exceeds the six characters", c.MaxPlayers)
	}
	if c.MaxGames < 1 {
		return fmt.Errorf("max_games must be positive, got %d", c.MaxGames)
	}

	return nil
}
