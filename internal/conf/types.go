package conf

import "time"

type Config struct {
	Sampling  Sampling  `toml:"sampling" yaml:"sampling"`
	UI        UI        `toml:"ui" yaml:"ui"`
	Icon      Icon      `toml:"icon" yaml:"icon"`
	Dashboard Dashboard `toml:"dashboard" yaml:"dashboard"`
	Auth      Auth      `toml:"auth" yaml:"auth"`
	Log       Log       `toml:"log" yaml:"log"`
}

// Sampling controls the background sampler
type Sampling struct {
	Period        time.Duration `toml:"period" yaml:"period"`
	SettleDelay   time.Duration `toml:"settle_delay" yaml:"settle_delay"`
	MinDiskSizeGB float64       `toml:"min_disk_size_gb" yaml:"min_disk_size_gb"`
	CPUPrime      bool          `toml:"cpu_prime" yaml:"cpu_prime"`
}

// UI controls the consumer tick
type UI struct {
	PollInterval time.Duration `toml:"poll_interval" yaml:"poll_interval"`
}

// Icon controls the tray icon artifact
type Icon struct {
	Dir    string `toml:"dir" yaml:"dir"`
	Format string `toml:"format" yaml:"format"`
}

type Dashboard struct {
	Enabled  bool   `toml:"enabled" yaml:"enabled"`
	Listen   string `toml:"listen" yaml:"listen"`
	RootPath string `toml:"root_path" yaml:"root_path"`
}

// Auth maps usernames to bcrypt hashes
type Auth struct {
	Users map[string]string `toml:"users" yaml:"users"`
}

type Log struct {
	Level       string `toml:"level" yaml:"level"`
	Development bool   `toml:"development" yaml:"development"`
}
