package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/kube-telemetry/pkg/defaults"
	"github.com/NVIDIA/kube-telemetry/pkg/errors"
)

// MetricGroup names a set of custom pod metrics emitted together as
// one report section (k8s_pods_<name>).
type MetricGroup struct {
	Name    string   `yaml:"name"`
	Metrics []string `yaml:"metrics"`
}

// Duration is a time.Duration that reads from YAML as a Go duration
// string such as "30s" or "1m30s".
type Duration time.Duration

// UnmarshalYAML decodes a duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Stats tunes how hard the agent queries the kubelet stats proxy.
// Zero values keep the built-in defaults, so a config file only needs
// the fields it wants to change.
type Stats struct {
	// RequestsPerSecond caps the sustained rate of stats requests
	// through the API server proxy.
	RequestsPerSecond int `yaml:"requestsPerSecond"`

	// Burst is the short-term allowance above the sustained rate.
	Burst int `yaml:"burst"`

	// FetchTimeout bounds one kubelet stats fetch.
	FetchTimeout Duration `yaml:"fetchTimeout"`
}

// Rate returns the configured sustained rate, or the default when
// unset.
func (s Stats) Rate() int {
	if s.RequestsPerSecond > 0 {
		return s.RequestsPerSecond
	}
	return defaults.StatsRequestsPerSecond
}

// BurstSize returns the configured burst, or the default when unset.
func (s Stats) BurstSize() int {
	if s.Burst > 0 {
		return s.Burst
	}
	return defaults.StatsRequestBurst
}

// Timeout returns the configured fetch timeout, or the default when
// unset.
func (s Stats) Timeout() time.Duration {
	if s.FetchTimeout > 0 {
		return time.Duration(s.FetchTimeout)
	}
	return defaults.CollectorStatsTimeout
}

// Config controls which custom metrics the agent probes for and how
// the kubelet stats fan-out is budgeted. Group order is report section
// order.
type Config struct {
	MetricGroups []MetricGroup `yaml:"metricGroups"`
	Stats        Stats         `yaml:"stats"`
}

// Default returns the built-in metric groups probed when no config
// file overrides them.
func Default() *Config {
	return &Config{
		MetricGroups: []MetricGroup{
			{
				Name: "memory",
				Metrics: []string{
					"memory_rss",
					"memory_swap",
					"memory_usage_bytes",
					"memory_max_usage_bytes",
				},
			},
			{
				Name: "fs",
				Metrics: []string{
					"fs_inodes",
					"fs_reads",
					"fs_writes",
					"fs_limit_bytes",
					"fs_usage_bytes",
				},
			},
			{
				Name: "cpu",
				Metrics: []string{
					"cpu_system",
					"cpu_user",
					"cpu_usage",
				},
			},
		},
	}
}

// Load reads a config file. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeNotFound,
			"reading config file", err, map[string]any{"path": path})
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest,
			"parsing config file", err, map[string]any{"path": path})
	}
	if len(cfg.MetricGroups) == 0 {
		cfg.MetricGroups = Default().MetricGroups
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	seen := make(map[string]bool, len(c.MetricGroups))
	for _, group := range c.MetricGroups {
		if group.Name == "" {
			return errors.New(errors.ErrCodeInvalidRequest,
				"metric group without a name")
		}
		if seen[group.Name] {
			return errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"duplicate metric group", map[string]any{"group": group.Name})
		}
		seen[group.Name] = true
		if len(group.Metrics) == 0 {
			return errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"metric group without metrics", map[string]any{"group": group.Name})
		}
	}

	if c.Stats.RequestsPerSecond < 0 {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"stats rate cannot be negative",
			map[string]any{"requestsPerSecond": c.Stats.RequestsPerSecond})
	}
	if c.Stats.Burst < 0 {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"stats burst cannot be negative",
			map[string]any{"burst": c.Stats.Burst})
	}
	if c.Stats.FetchTimeout < 0 {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"stats fetch timeout cannot be negative",
			map[string]any{"fetchTimeout": time.Duration(c.Stats.FetchTimeout).String()})
	}
	return nil
}
