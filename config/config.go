package config

import (
	"bytes"
	"html/template"
	"io/ioutil"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	// Address the RPC server listens on, e.g. tcp://127.0.0.1:8545
	BindAddress string
	// One of debug, info, warn, error
	LogLevel string
	// file://- routes log output to stdout, file://path appends to path,
	// leave empty for stderr
	LogDestination string
	// Accept JSON-RPC over websocket connections in addition to plain HTTP
	EnableWebSocket bool
	// Maximum number of simultaneous client connections, 0 means no limit
	MaxOpenConnections int
	// Serve the pprof handlers under /debug/pprof
	EnableDebugServer bool

	Cache   *CacheConfig
	Limiter *LimiterConfig
	Metrics *MetricsConfig
}

type CacheConfig struct {
	// Enables memoization of checksum results
	CachingEnabled bool
	// Maximum number of checksummed addresses kept in memory
	MaxKeys int
}

func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		CachingEnabled: true,
		MaxKeys:        10000,
	}
}

// Clone returns a deep clone of the config.
func (c *CacheConfig) Clone() *CacheConfig {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

type LimiterConfig struct {
	// Enables throttling of clients that keep submitting malformed addresses
	Enabled bool
	// Number of seconds each limiter window lasts
	Period int64
	// Maximum number of rejected requests allowed per window
	Limit int64
}

func DefaultLimiterConfig() *LimiterConfig {
	return &LimiterConfig{
		Enabled: true,
		Period:  60,
		Limit:   10,
	}
}

// Clone returns a deep clone of the config.
func (c *LimiterConfig) Clone() *LimiterConfig {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

type MetricsConfig struct {
	// Collects request counts and latencies for each query service method
	EnableInstrumentation bool
}

func DefaultMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		EnableInstrumentation: true,
	}
}

// Clone returns a deep clone of the config.
func (c *MetricsConfig) Clone() *MetricsConfig {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

func DefaultConfig() *Config {
	return &Config{
		BindAddress:        "tcp://127.0.0.1:8545",
		LogLevel:           "info",
		LogDestination:     "",
		EnableWebSocket:    true,
		MaxOpenConnections: 0,
		EnableDebugServer:  false,
		Cache:              DefaultCacheConfig(),
		Limiter:            DefaultLimiterConfig(),
		Metrics:            DefaultMetricsConfig(),
	}
}

// Clone returns a deep clone of the config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Cache = c.Cache.Clone()
	clone.Limiter = c.Limiter.Clone()
	clone.Metrics = c.Metrics.Clone()
	return &clone
}

// ParseConfig loads ethaddr.yml from ./ or ./config, applying any ETHADDR_
// prefixed env vars on top of the file settings.
func ParseConfig() (*Config, error) {
	return ParseConfigFrom("ethaddr")
}

func ParseConfigFrom(filename string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvPrefix("ETHADDR")

	v.SetConfigName(filename)                     // name of config file (without extension)
	v.AddConfigPath(".")                          // search root directory
	v.AddConfigPath(filepath.Join(".", "config")) // search root directory /config

	v.ReadInConfig()
	conf := DefaultConfig()
	err := v.Unmarshal(conf)
	if err != nil {
		return nil, err
	}
	return conf, err
}

func (c *Config) WriteToFile(filename string) error {
	var buf bytes.Buffer
	cfgTemplate, err := parseCfgTemplate()
	if err != nil {
		return err
	}
	if err := cfgTemplate.Execute(&buf, c); err != nil {
		return err
	}
	return ioutil.WriteFile(filename, buf.Bytes(), 0644)
}

var cfgTemplate *template.Template

func parseCfgTemplate() (*template.Template, error) {
	if cfgTemplate != nil {
		return cfgTemplate, nil
	}

	var err error
	cfgTemplate, err = template.New("ethaddrYamlTemplate").Parse(defaultYamlTemplate)
	if err != nil {
		return nil, err
	}
	return cfgTemplate, nil
}

const defaultYamlTemplate = `# Ethaddr service config file

#
# Network
#

BindAddress: "{{ .BindAddress }}"
EnableWebSocket: {{ .EnableWebSocket }}
MaxOpenConnections: {{ .MaxOpenConnections }}
EnableDebugServer: {{ .EnableDebugServer }}

#
# Logging
#

LogLevel: "{{ .LogLevel }}"
LogDestination: "{{ .LogDestination }}"

#
# Checksum result cache
#

Cache:
  CachingEnabled: {{ .Cache.CachingEnabled }}
  MaxKeys: {{ .Cache.MaxKeys }}

#
# Throttling of repeated malformed submissions
#

Limiter:
  Enabled: {{ .Limiter.Enabled }}
  Period: {{ .Limiter.Period }}
  Limit: {{ .Limiter.Limit }}

#
# Metrics
#

Metrics:
  EnableInstrumentation: {{ .Metrics.EnableInstrumentation }}
`
