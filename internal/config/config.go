package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

type Config struct {
	LogLevel   string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string  `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string  `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Storage    Storage `yaml:"storage"`
	Timing     Timing  `yaml:"timing"`
	Weights    Weights `yaml:"weights"`
}

type Storage struct {
	Driver     string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	Redis      Redis  `yaml:"redis"`
	SQLitePath string `yaml:"sqlite-path" env:"SQLITE_PATH" env-default:"arcade.db"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Timing holds the delays of every deferred callback the session controllers schedule.
type Timing struct {
	BotDelayMin         time.Duration `yaml:"bot-delay-min" env-default:"500ms"`
	BotDelayMax         time.Duration `yaml:"bot-delay-max" env-default:"1500ms"`
	TurnTimeout         time.Duration `yaml:"turn-timeout" env-default:"0s"`
	TournamentNextDelay time.Duration `yaml:"tournament-next-delay" env-default:"2s"`
	GuessStepDelay      time.Duration `yaml:"guess-step-delay" env-default:"1000ms"`
	GuessPause          time.Duration `yaml:"guess-pause" env-default:"1500ms"`
	MatchRevealDelay    time.Duration `yaml:"match-reveal-delay" env-default:"1000ms"`
	AutoplayInterval    time.Duration `yaml:"autoplay-interval" env-default:"200ms"`
	CountdownTick       time.Duration `yaml:"countdown-tick" env-default:"1s"`
}

type Weights struct {
	G2048  G2048Weights  `yaml:"g2048"`
	Tetris TetrisWeights `yaml:"tetris"`
}

type G2048Weights struct {
	Score        float64 `yaml:"score" env:"W2048_SCORE" env-default:"10"`
	Empty        float64 `yaml:"empty" env:"W2048_EMPTY" env-default:"100"`
	Monotonicity float64 `yaml:"monotonicity" env:"W2048_MONOTONICITY" env-default:"50"`
	Smoothness   float64 `yaml:"smoothness" env:"W2048_SMOOTHNESS" env-default:"30"`
}

type TetrisWeights struct {
	Lines     int `yaml:"lines" env:"WTETRIS_LINES" env-default:"1000"`
	Holes     int `yaml:"holes" env:"WTETRIS_HOLES" env-default:"500"`
	Bumpiness int `yaml:"bumpiness" env:"WTETRIS_BUMPINESS" env-default:"100"`
	Height    int `yaml:"height" env:"WTETRIS_HEIGHT" env-default:"50"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Default - config built from env-default tags and the environment only.
func Default() *Config {
	config := &Config{}

	if err := cleanenv.ReadEnv(config); err != nil {
		panic(fmt.Errorf("unable to read config from environment: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
