package main

import (
	"fmt"
	"strings"
	"time"

	"brew_control/internal/controller"
	"brew_control/internal/models"

	"github.com/spf13/viper"
)

type appConfig struct {
	Port string `mapstructure:"port"`
	DB   struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"db"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	Auth struct {
		SigningKey string        `mapstructure:"signing_key"`
		TokenTTL   time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"auth"`
	Loop struct {
		Tick          time.Duration `mapstructure:"tick"`
		SensorTimeout time.Duration `mapstructure:"sensor_timeout"`
		HistorySize   int           `mapstructure:"history_size"`
		TimeScale     float64       `mapstructure:"time_scale"`
		AutoAdvance   bool          `mapstructure:"auto_advance"`
		Seed          int64         `mapstructure:"seed"`
	} `mapstructure:"loop"`
	Brew struct {
		Recipe string `mapstructure:"recipe"`
	} `mapstructure:"brew"`
	Channels []controller.ChannelConfig `mapstructure:"channels"`
	Sensors  []models.SensorConfig      `mapstructure:"sensors"`
	W1       struct {
		Dir     string     `mapstructure:"dir"`
		Devices []w1Device `mapstructure:"devices"`
	} `mapstructure:"w1"`
	MQTT struct {
		Broker   string `mapstructure:"broker"`
		Topic    string `mapstructure:"topic"`
		ClientID string `mapstructure:"client_id"`
	} `mapstructure:"mqtt"`
	GPIO struct {
		Chip   string        `mapstructure:"chip"`
		Lines  []int         `mapstructure:"lines"`
		Window time.Duration `mapstructure:"window"`
	} `mapstructure:"gpio"`
}

// w1Device binds a 1-Wire probe to a sensor slot.
type w1Device struct {
	Sensor int    `mapstructure:"sensor"`
	ID     string `mapstructure:"id"`
}

// newViper reads path, or configs/config.yml when path is empty. BREW_*
// environment variables override file values (BREW_LOG_LEVEL for log.level).
func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs") // configs/config.yml
		v.SetConfigName("config")
	}
	v.SetEnvPrefix("BREW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("loop.tick", controller.DefaultTick)
	v.SetDefault("loop.sensor_timeout", controller.DefaultSensorTimeout)
	v.SetDefault("loop.history_size", controller.DefaultHistorySize)
	v.SetDefault("loop.time_scale", 1.0)
	v.SetDefault("loop.seed", 1)
	v.SetDefault("mqtt.client_id", "brewctl")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func decodeConfig(v *viper.Viper) (appConfig, error) {
	var cfg appConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return appConfig{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// loopConfig is the part of the file the control loop is built from.
func (c appConfig) loopConfig() controller.Config {
	return controller.Config{
		Tick:          c.Loop.Tick,
		SensorTimeout: c.Loop.SensorTimeout,
		HistorySize:   c.Loop.HistorySize,
		TimeScale:     c.Loop.TimeScale,
		AutoAdvance:   c.Loop.AutoAdvance,
		Seed:          c.Loop.Seed,
		Channels:      c.Channels,
		Sensors:       c.Sensors,
	}
}
