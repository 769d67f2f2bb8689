package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env    string       `mapstructure:"env"`
	Log    LogConfig    `mapstructure:"log"`
	Probe  ProbeConfig  `mapstructure:"probe"`
	Kafka  KafkaConfig  `mapstructure:"kafka"`
	Plugin PluginConfig `mapstructure:"-"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Dir   string `mapstructure:"dir"`
}

type ProbeConfig struct {
	Backend     string       `mapstructure:"backend"`
	Timeout     int          `mapstructure:"timeout"`
	MaxParallel int          `mapstructure:"max_parallel"`
	Native      NativeConfig `mapstructure:"native"`
}

type NativeConfig struct {
	Count      int  `mapstructure:"count"`
	IntervalMS int  `mapstructure:"interval_ms"`
	TimeoutMS  int  `mapstructure:"timeout_ms"`
	Privileged bool `mapstructure:"privileged"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// PluginConfig is the environment munin hands to the plugin.
type PluginConfig struct {
	Hosts       string `env:"hosts" env-description:"comma-separated host specs"`
	Names       string `env:"names" env-description:"comma-separated labels, one per host"`
	Ping        string `env:"ping" env-default:"ping"`
	Ping6       string `env:"ping6" env-default:"ping6"`
	PingArgs    string `env:"ping_args" env-default:"-c 2 -w 1"`
	PingArgs2   string `env:"ping_args2"`
	Fork        string `env:"fork" env-default:"no"`
	HostCommand string `env:"host" env-default:"host"`
}

const (
	BackendExec   = "exec"
	BackendNative = "native"
)

// Load reads the optional config file and the environment. An empty path
// searches for multiping.yaml in the usual places; a missing file is only an
// error when path was given explicitly.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MULTIPING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("multiping")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/munin")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cleanenv.ReadEnv(&cfg.Plugin); err != nil {
		return nil, fmt.Errorf("failed to read plugin environment: %w", err)
	}

	switch cfg.Probe.Backend {
	case BackendExec, BackendNative:
	default:
		return nil, fmt.Errorf("unknown probe backend %q", cfg.Probe.Backend)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "prod")
	v.SetDefault("log.level", "")
	v.SetDefault("log.dir", "")

	v.SetDefault("probe.backend", BackendExec)
	v.SetDefault("probe.timeout", 0)
	v.SetDefault("probe.max_parallel", 0)
	v.SetDefault("probe.native.count", 2)
	v.SetDefault("probe.native.interval_ms", 1000)
	v.SetDefault("probe.native.timeout_ms", 0)
	v.SetDefault("probe.native.privileged", false)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "multiping-results")
}

// ForkEnabled reports whether fork holds one of munin's usual truthy values.
func (p PluginConfig) ForkEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(p.Fork)) {
	case "1", "y", "yes", "true", "on":
		return true
	}
	return false
}

func (c *Config) GetProbeTimeout() time.Duration {
	return time.Duration(c.Probe.Timeout) * time.Second
}

func (c *Config) GetNativeInterval() time.Duration {
	return time.Duration(c.Probe.Native.IntervalMS) * time.Millisecond
}

func (c *Config) GetNativeTimeout() time.Duration {
	return time.Duration(c.Probe.Native.TimeoutMS) * time.Millisecond
}
