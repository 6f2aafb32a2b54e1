package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	HTTPPort   string    `yaml:"http-port" env:"HTTP_PORT" env-default:"9090" validate:"required,numeric"`
	SocketPort string    `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091" validate:"required,numeric"`
	Redis      Redis     `yaml:"redis"`
	Bot        Bot       `yaml:"bot"`
	Telemetry  Telemetry `yaml:"telemetry"`
}

type Redis struct {
	Host      string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost" validate:"required"`
	Port      string        `yaml:"port" env:"REDIS_PORT" env-default:"6379" validate:"required,numeric"`
	GameTTL   time.Duration `yaml:"game-ttl" env:"REDIS_GAME_TTL" env-default:"24h"`
	PlayerTTL time.Duration `yaml:"player-ttl" env:"REDIS_PLAYER_TTL" env-default:"720h"`
}

// Bot - settings of the computer opponent.
//
// DepthLimit bounds the minimax search: lower is weaker and faster, higher is
// stronger and slower. The tree has 9 plies at most, so values above 9 add nothing.
type Bot struct {
	DepthLimit int           `yaml:"depth-limit" env:"BOT_DEPTH_LIMIT" env-default:"2" validate:"min=1,max=9"`
	MoveDelay  time.Duration `yaml:"move-delay" env:"BOT_MOVE_DELAY" env-default:"500ms" validate:"min=0"`
}

type Telemetry struct {
	Enabled     bool   `yaml:"enabled" env:"OTEL_ENABLED" env-default:"false"`
	Endpoint    string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"localhost:4317" validate:"required_if=Enabled true"`
	ServiceName string `yaml:"service-name" env:"OTEL_SERVICE_NAME" env-default:"tictactoe-bot"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	if err := config.Validate(); err != nil {
		panic(fmt.Errorf("invalid config: %w", err))
	}

	return config
}

// Validate - checks value ranges that cleanenv cannot express.
func (that *Config) Validate() error {
	if err := validator.New().Struct(that); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
