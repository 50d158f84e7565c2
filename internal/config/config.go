package config

import (
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/cpuhistory/internal/errors"
	"codeberg.org/mutker/cpuhistory/internal/journal"
	"codeberg.org/mutker/cpuhistory/internal/logger"
	"codeberg.org/mutker/cpuhistory/internal/sampler"
	"codeberg.org/mutker/cpuhistory/internal/source"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultCapacity            = sampler.DefaultHistoryCapacity
	DefaultIntervalMillis      = 1000
	DefaultDisplayMillis       = 1000
	DefaultSource              = source.NameAuto
	DefaultLogLevel            = "info"
	DefaultJournalDB           = "/var/lib/cpuhistory/samples.db"
	DefaultJournalBatchSize    = 30
	DefaultJournalBatchTimeout = 10

	defaultConfigFile = "/etc/cpuhistory.toml"
	defaultEnvPrefix  = "CPUHISTORY"
)

type Config struct {
	Capacity            int    `mapstructure:"capacity"`
	Interval            int    `mapstructure:"interval"`
	DisplayInterval     int    `mapstructure:"display_interval"`
	Source              string `mapstructure:"source"`
	LogLevel            string `mapstructure:"log_level"`
	Journal             bool   `mapstructure:"journal"`
	JournalDB           string `mapstructure:"journal_db"`
	JournalBatchSize    int    `mapstructure:"journal_batch_size"`
	JournalBatchTimeout int    `mapstructure:"journal_batch_timeout"`
	PIDFile             bool   `mapstructure:"pid"`
}

// Option defines a configuration option that can be passed to Load
type Option func(*options)

type options struct {
	args       []string
	configPath string
	envPrefix  string
}

// WithArgs parses args instead of os.Args[1:].
func WithArgs(args []string) Option {
	return func(o *options) {
		o.args = args
	}
}

// WithConfigFile specifies an explicit configuration file path
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configPath = path
	}
}

// WithEnvPrefix specifies a custom environment variable prefix
// Default is "CPUHISTORY"
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// Load reads defaults, the TOML config file, CPUHISTORY_* environment
// variables and command line flags, later sources overriding earlier ones.
func Load(opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{args: os.Args[1:], envPrefix: defaultEnvPrefix}
	for _, opt := range opts {
		opt(o)
	}

	v := viper.New()
	setDefaults(v)

	flags := newFlagSet()
	if err := flags.Parse(o.args); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, o, flags); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("capacity", DefaultCapacity)
	v.SetDefault("interval", DefaultIntervalMillis)
	v.SetDefault("display_interval", DefaultDisplayMillis)
	v.SetDefault("source", DefaultSource)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("journal", false)
	v.SetDefault("journal_db", DefaultJournalDB)
	v.SetDefault("journal_batch_size", DefaultJournalBatchSize)
	v.SetDefault("journal_batch_timeout", DefaultJournalBatchTimeout)
	v.SetDefault("pid", true)
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("cpuhistory", pflag.ContinueOnError)

	flags.String("config", "", "Path to a TOML configuration file")
	flags.Int("capacity", DefaultCapacity, "Number of samples kept in history")
	flags.Int("interval", DefaultIntervalMillis, "Milliseconds between samples")
	flags.Int("display-interval", DefaultDisplayMillis, "Milliseconds between printed snapshots")
	flags.String("source", DefaultSource, "Metric source: auto, cpu or none")
	flags.String("log-level", DefaultLogLevel, "Log level: debug, info, warning or error")
	flags.Bool("journal", false, "Append samples to a SQLite journal")
	flags.String("journal-db", DefaultJournalDB, "Path to the sample journal database")
	flags.Int("journal-batch-size", DefaultJournalBatchSize, "Samples written per journal transaction")
	flags.Int("journal-batch-timeout", DefaultJournalBatchTimeout, "Seconds between journal flushes")
	flags.Bool("pid", true, "Refuse to start when another instance holds the PID file")

	// Flag names use dashes, configuration keys use underscores.
	flags.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "-", "_"))
	})

	return flags
}

func readConfigFile(v *viper.Viper, o *options, flags *pflag.FlagSet) error {
	errFactory := errors.New()

	path := o.configPath
	if flagPath, _ := flags.GetString("config"); flagPath != "" {
		path = flagPath
	}
	if path == "" {
		path = os.Getenv(o.envPrefix + "_CONFIG")
	}

	v.SetConfigType("toml")
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			return nil
		}
		path = defaultConfigFile
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errFactory.Wrap(errors.ErrReadConfig, err)
	}

	return nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Capacity <= 0 {
		return errFactory.Wrap(errors.ErrInvalidConfig, errFactory.WithData(errors.ErrInvalidCapacity, c.Capacity))
	}
	if c.Interval <= 0 {
		return errFactory.Wrap(errors.ErrInvalidConfig, errFactory.WithData(errors.ErrInvalidInterval, c.Interval))
	}
	if c.DisplayInterval <= 0 {
		return errFactory.Wrap(errors.ErrInvalidConfig, errFactory.WithData(errors.ErrInvalidInterval, c.DisplayInterval))
	}
	switch c.Source {
	case source.NameAuto, source.NameCPU, source.NameNone:
	default:
		return errFactory.WithData(errors.ErrInvalidConfig, "unknown source "+c.Source)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	if err := c.JournalConfig().Validate(); err != nil {
		return errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	return nil
}

// SamplerConfig returns the history settings for the sampling service.
func (c *Config) SamplerConfig() sampler.Config {
	return sampler.NewConfig(c.Capacity, c.Interval)
}

// JournalConfig returns the sample journal settings.
func (c *Config) JournalConfig() journal.Config {
	return journal.Config{
		DBPath:       c.JournalDB,
		BatchSize:    c.JournalBatchSize,
		BatchTimeout: time.Duration(c.JournalBatchTimeout) * time.Second,
		Enabled:      c.Journal,
	}
}

// DisplayEvery returns the period between printed snapshots.
func (c *Config) DisplayEvery() time.Duration {
	return time.Duration(c.DisplayInterval) * time.Millisecond
}
