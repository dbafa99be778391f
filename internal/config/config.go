package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is read once at process start and treated as immutable afterwards.
type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	Origin     string        `mapstructure:"origin"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`

	// Game pacing.
	TurnLength   time.Duration `mapstructure:"turn_length"`
	GuessTime    time.Duration `mapstructure:"guess_time"`
	ReadyTimeout time.Duration `mapstructure:"ready_timeout"`
	RoundPause   time.Duration `mapstructure:"round_pause"`

	// Game policy.
	MinimumPlayers       int  `mapstructure:"minimum_players"`
	DefaultLobbySize     int  `mapstructure:"default_lobby_size"`
	OutOfGameDrawEnabled bool `mapstructure:"out_of_game_draw_enabled"`
	ClearOnEnd           bool `mapstructure:"clear_on_end"`
	TraceLevel           int  `mapstructure:"trace_level"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 5555)
	v.SetDefault("static_path", "./web")
	v.SetDefault("origin", "http://localhost:5173")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("turn_length", "10s")
	v.SetDefault("guess_time", "10s")
	v.SetDefault("ready_timeout", "3s")
	v.SetDefault("round_pause", "5s")
	v.SetDefault("minimum_players", 3)
	v.SetDefault("default_lobby_size", 8)
	v.SetDefault("out_of_game_draw_enabled", true)
	v.SetDefault("clear_on_end", true)
	v.SetDefault("trace_level", 0)

	v.SetEnvPrefix("SKETCHSPY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Default returns the built-in configuration without touching disk or env.
func Default() *Config {
	return &Config{
		Mode:                 "release",
		Port:                 5555,
		StaticPath:           "./web",
		Origin:               "http://localhost:5173",
		ReadLimit:            32768,
		PingPeriod:           54 * time.Second,
		TurnLength:           10 * time.Second,
		GuessTime:            10 * time.Second,
		ReadyTimeout:         3 * time.Second,
		RoundPause:           5 * time.Second,
		MinimumPlayers:       3,
		DefaultLobbySize:     8,
		OutOfGameDrawEnabled: true,
		ClearOnEnd:           true,
	}
}
