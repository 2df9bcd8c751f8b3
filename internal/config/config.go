// Package config loads the immutable application configuration shared
// by the edge and brain processes.
package config

import (
	"cmp"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults applied for omitted values.
const (
	DefaultLogLevel            = "info"
	DefaultBroker              = "tcp://localhost:1883"
	DefaultClientIDPrefix      = "x32-automix"
	DefaultConsoleHost         = "192.168.1.10"
	DefaultConsolePort         = 10023
	DefaultKeepaliveIntervalMs = 9000 // console subscription expires after 10 s
	DefaultSampleRate          = 48000
	DefaultChannelCount        = 32
	DefaultBlockSize           = 1024
	DefaultTelemetryIntervalMs = 200
)

// MQTTConfig holds message-bus connection settings.
type MQTTConfig struct {
	Broker         string `yaml:"broker" env:"X32_MQTT_BROKER" validate:"required"`
	ClientIDPrefix string `yaml:"client_id_prefix" validate:"required"`
}

// ConsoleConfig holds console OSC endpoint and keepalive settings.
type ConsoleConfig struct {
	Host                string `yaml:"host" env:"X32_CONSOLE_HOST" validate:"required"`
	Port                int    `yaml:"port" env:"X32_CONSOLE_PORT" validate:"gte=1,lte=65535"`
	KeepaliveIntervalMs int64  `yaml:"keepalive_interval_ms" validate:"gte=1000,lte=9900"`
}

// AudioConfig holds capture stream settings for the edge process.
type AudioConfig struct {
	SampleRate int `yaml:"sample_rate" validate:"gte=8000,lte=192000"`
	Channels   int `yaml:"channels" validate:"gte=1,lte=64"`
	BlockSize  int `yaml:"block_size" validate:"gte=64,lte=8192"`
}

// TelemetryConfig holds the publishing cadence for level telemetry.
type TelemetryConfig struct {
	IntervalMs int64 `yaml:"interval_ms" validate:"gte=50,lte=5000"`
}

// ChannelConfig describes one console input channel in the mixing map.
type ChannelConfig struct {
	Name     string `yaml:"name"`
	Group    string `yaml:"group"`
	Priority string `yaml:"priority"`
}

// MixerConfig holds the channel map and decision-engine settings.
type MixerConfig struct {
	TargetBus         []int                    `yaml:"target_bus" validate:"min=1,dive,gte=1,lte=16"`
	SuppressUnchanged bool                     `yaml:"suppress_unchanged"`
	Channels          map[string]ChannelConfig `yaml:"channels"`
}

// Config stores the application configuration. It is constructed once
// at startup and never mutated afterwards.
type Config struct {
	LogLevel  string          `yaml:"log_level"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Console   ConsoleConfig   `yaml:"console"`
	Audio     AudioConfig     `yaml:"audio"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Mixer     MixerConfig     `yaml:"mixer"`
}

// Report describes how the configuration was obtained. A degraded load
// keeps both processes running on defaults with an empty channel map,
// which disables automation entirely: no channel is known to the brain,
// so no command is ever emitted.
type Report struct {
	Path     string
	Degraded bool
	Err      error
}

// Defaults returns the built-in configuration with an empty channel map.
func Defaults() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		MQTT: MQTTConfig{
			Broker:         DefaultBroker,
			ClientIDPrefix: DefaultClientIDPrefix,
		},
		Console: ConsoleConfig{
			Host:                DefaultConsoleHost,
			Port:                DefaultConsolePort,
			KeepaliveIntervalMs: DefaultKeepaliveIntervalMs,
		},
		Audio: AudioConfig{
			SampleRate: DefaultSampleRate,
			Channels:   DefaultChannelCount,
			BlockSize:  DefaultBlockSize,
		},
		Telemetry: TelemetryConfig{
			IntervalMs: DefaultTelemetryIntervalMs,
		},
		Mixer: MixerConfig{
			TargetBus: []int{11, 12},
			Channels:  map[string]ChannelConfig{},
		},
	}
}

// Load reads the configuration file at the given path, overlays
// environment variables, fills omitted fields with defaults and
// validates the result. It never fails: any problem is folded into the
// returned Report and the built-in defaults are used instead, so the
// caller can log the condition once a logger exists.
func Load(path string) (*Config, Report) {
	report := Report{Path: path}

	cfg, err := load(path)
	if err != nil {
		report.Degraded = true
		report.Err = err
		cfg = Defaults()
		// Env overrides still apply in degraded mode so a missing file
		// does not also lose the broker and console addresses.
		_ = env.Parse(cfg)
	}

	return cfg, report
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Defaults()

	cfg.LogLevel = cmp.Or(cfg.LogLevel, def.LogLevel)
	cfg.MQTT.Broker = cmp.Or(cfg.MQTT.Broker, def.MQTT.Broker)
	cfg.MQTT.ClientIDPrefix = cmp.Or(cfg.MQTT.ClientIDPrefix, def.MQTT.ClientIDPrefix)
	cfg.Console.Host = cmp.Or(cfg.Console.Host, def.Console.Host)
	cfg.Console.Port = cmp.Or(cfg.Console.Port, def.Console.Port)
	cfg.Console.KeepaliveIntervalMs = cmp.Or(cfg.Console.KeepaliveIntervalMs, def.Console.KeepaliveIntervalMs)
	cfg.Audio.SampleRate = cmp.Or(cfg.Audio.SampleRate, def.Audio.SampleRate)
	cfg.Audio.Channels = cmp.Or(cfg.Audio.Channels, def.Audio.Channels)
	cfg.Audio.BlockSize = cmp.Or(cfg.Audio.BlockSize, def.Audio.BlockSize)
	cfg.Telemetry.IntervalMs = cmp.Or(cfg.Telemetry.IntervalMs, def.Telemetry.IntervalMs)

	if len(cfg.Mixer.TargetBus) == 0 {
		cfg.Mixer.TargetBus = def.Mixer.TargetBus
	}
	if cfg.Mixer.Channels == nil {
		cfg.Mixer.Channels = map[string]ChannelConfig{}
	}
}
