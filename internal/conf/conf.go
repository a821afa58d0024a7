package conf

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SYSMONBAR_"

var (
	Path string       // Config path
	mu   sync.RWMutex // Protects access to Conf
	Conf = Default()
)

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Sampling: Sampling{
			Period:      500 * time.Millisecond,
			SettleDelay: 200 * time.Millisecond,
		},
		UI: UI{
			PollInterval: 50 * time.Millisecond,
		},
		Icon: Icon{
			Dir:    os.TempDir(),
			Format: "svg",
		},
		Dashboard: Dashboard{
			Listen:   "127.0.0.1:8080",
			RootPath: "web",
		},
		Log: Log{
			Level: "info",
		},
	}
}

// LoadConfig sets Path and loads the file into memory. A missing file is
// created with the defaults. Run this at start.
func LoadConfig(path string) error {
	mu.Lock()
	Path = path
	mu.Unlock()

	err := Update()
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := Write(Default()); err != nil {
		return fmt.Errorf("failed to create default config: %w", err)
	}
	// Env overrides still apply on top of the fresh file.
	if err := Update(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// Update re-reads the config file, applies environment overrides and
// replaces Conf when the result is valid.
func Update() error {
	mu.Lock()
	defer mu.Unlock()

	next := Default()
	if err := decodeFile(Path, &next); err != nil {
		return err
	}
	if err := ApplyEnv(&next, os.LookupEnv); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	Conf = next
	return nil
}

// Write saves the provided config to Path and makes it current
func Write(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	if dir := filepath.Dir(Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}
	f, err := os.Create(Path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if isYAML(Path) {
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		err = enc.Encode(c)
		if err == nil {
			err = enc.Close()
		}
	} else {
		err = toml.NewEncoder(f).Encode(c)
	}
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	Conf = c.clone()
	return nil
}

// Read returns a copy of the current configuration
func Read() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Conf.clone()
}

// GetSampling returns the sampling section in a thread-safe manner
func GetSampling() Sampling {
	mu.RLock()
	defer mu.RUnlock()
	return Conf.Sampling
}

// GetUI returns the UI section in a thread-safe manner
func GetUI() UI {
	mu.RLock()
	defer mu.RUnlock()
	return Conf.UI
}

// GetIcon returns the icon section in a thread-safe manner
func GetIcon() Icon {
	mu.RLock()
	defer mu.RUnlock()
	return Conf.Icon
}

// GetDashboard returns the dashboard section in a thread-safe manner
func GetDashboard() Dashboard {
	mu.RLock()
	defer mu.RUnlock()
	return Conf.Dashboard
}

// GetLog returns the log section in a thread-safe manner
func GetLog() Log {
	mu.RLock()
	defer mu.RUnlock()
	return Conf.Log
}

// GetUsers returns a copy of the users map in a thread-safe manner
func GetUsers() map[string]string {
	mu.RLock()
	defer mu.RUnlock()
	return maps.Clone(Conf.Auth.Users)
}

// GetUserHash returns the stored password hash of a user
func GetUserHash(name string) (string, bool) {
	mu.RLock()
	defer mu.RUnlock()
	h, ok := Conf.Auth.Users[name]
	return h, ok
}

// Validate checks value ranges
func (c Config) Validate() error {
	if c.Sampling.Period <= 0 {
		return fmt.Errorf("sampling.period must be positive, got %s", c.Sampling.Period)
	}
	if c.Sampling.SettleDelay < 0 {
		return fmt.Errorf("sampling.settle_delay must not be negative, got %s", c.Sampling.SettleDelay)
	}
	if c.Sampling.Period < c.Sampling.SettleDelay {
		return fmt.Errorf("sampling.period (%s) must not be shorter than sampling.settle_delay (%s)",
			c.Sampling.Period, c.Sampling.SettleDelay)
	}
	if c.Sampling.MinDiskSizeGB < 0 {
		return fmt.Errorf("sampling.min_disk_size_gb must not be negative")
	}
	if c.UI.PollInterval < 10*time.Millisecond || c.UI.PollInterval > time.Second {
		return fmt.Errorf("ui.poll_interval must be between 10ms and 1s, got %s", c.UI.PollInterval)
	}
	switch c.Icon.Format {
	case "svg", "ico":
	default:
		return fmt.Errorf("icon.format must be svg or ico, got %q", c.Icon.Format)
	}
	if c.Dashboard.Enabled && c.Dashboard.Listen == "" {
		return fmt.Errorf("dashboard.listen is required when the dashboard is enabled")
	}
	return nil
}

// MinDiskSizeBytes converts Sampling.MinDiskSizeGB to bytes
func (s Sampling) MinDiskSizeBytes() uint64 {
	return uint64(s.MinDiskSizeGB * 1024 * 1024 * 1024)
}

// ApplyEnv overrides fields from SYSMONBAR_* variables found by lookup
func ApplyEnv(c *Config, lookup func(string) (string, bool)) error {
	var errs []error
	env := func(name string, apply func(v string) error) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return
		}
		if err := apply(v); err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
		}
	}
	duration := func(dst *time.Duration) func(string) error {
		return func(v string) (err error) {
			*dst, err = cast.ToDurationE(v)
			return err
		}
	}
	boolean := func(dst *bool) func(string) error {
		return func(v string) (err error) {
			*dst, err = cast.ToBoolE(v)
			return err
		}
	}
	str := func(dst *string) func(string) error {
		return func(v string) error {
			*dst = v
			return nil
		}
	}

	env("PERIOD", duration(&c.Sampling.Period))
	env("SETTLE_DELAY", duration(&c.Sampling.SettleDelay))
	env("MIN_DISK_SIZE_GB", func(v string) (err error) {
		c.Sampling.MinDiskSizeGB, err = cast.ToFloat64E(v)
		return err
	})
	env("CPU_PRIME", boolean(&c.Sampling.CPUPrime))
	env("POLL_INTERVAL", duration(&c.UI.PollInterval))
	env("ICON_DIR", str(&c.Icon.Dir))
	env("ICON_FORMAT", str(&c.Icon.Format))
	env("DASHBOARD_ENABLED", boolean(&c.Dashboard.Enabled))
	env("DASHBOARD_LISTEN", str(&c.Dashboard.Listen))
	env("LOG_LEVEL", str(&c.Log.Level))
	env("LOG_DEVELOPMENT", boolean(&c.Log.Development))

	return errors.Join(errs...)
}

func decodeFile(path string, dst *Config) error {
	if isYAML(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		return err
	}
	if _, err := toml.DecodeFile(path, dst); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func (c Config) clone() Config {
	out := c
	out.Auth.Users = maps.Clone(c.Auth.Users)
	return out
}
