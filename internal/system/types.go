package system

import (
	"maps"
	"slices"
	"time"
)

// BytesPerGB is the divisor used for every GB figure in a snapshot.
const BytesPerGB = 1024 * 1024 * 1024

// SystemInfo represents static host information
type SystemInfo struct {
	User   string `json:"user"`
	Host   string `json:"host"`
	OS     string `json:"os"`
	Kernel string `json:"kernel"`
	CPU    string `json:"cpu"`
}

// Group names a family of readings that is refreshed together.
type Group string

const (
	GroupCPU     Group = "cpu"
	GroupMemory  Group = "memory"
	GroupDisk    Group = "disk"
	GroupNetwork Group = "network"
	GroupHost    Group = "host"
	GroupLoad    Group = "load"
)

// SystemMetrics is one immutable snapshot of host state, produced once per
// sampling cycle.
type SystemMetrics struct {
	CPU         CPUMetrics     `json:"cpu"`
	Memory      MemoryMetrics  `json:"memory"`
	Disk        DiskMetrics    `json:"disk"`
	Network     NetworkMetrics `json:"network"`
	Uptime      uint64         `json:"uptime"`
	LoadAverage LoadAverage    `json:"load_average"`
	SampledAt   time.Time      `json:"sampled_at"`

	// Unavailable lists the groups whose OS read failed during this cycle.
	// Their values are zero.
	Unavailable []Group `json:"unavailable,omitempty"`
}

// CPUMetrics represents processor usage
type CPUMetrics struct {
	UsagePercent float64   `json:"usage_percent"`
	CoreCount    int       `json:"core_count"`
	PerCoreUsage []float64 `json:"per_core_usage"`
	Frequency    uint64    `json:"frequency"`
	Name         string    `json:"name"`
}

// MemoryMetrics represents memory and swap usage in GB
type MemoryMetrics struct {
	TotalMemory     float64 `json:"total_memory"`
	UsedMemory      float64 `json:"used_memory"`
	AvailableMemory float64 `json:"available_memory"`
	UsagePercent    float64 `json:"usage_percent"`
	TotalSwap       float64 `json:"total_swap"`
	UsedSwap        float64 `json:"used_swap"`
}

// HasSwap reports whether any swap is configured.
func (m MemoryMetrics) HasSwap() bool {
	return m.TotalSwap > 0
}

// SwapPercent returns swap usage, or 0 when no swap is configured.
func (m MemoryMetrics) SwapPercent() float64 {
	return percent(m.UsedSwap, m.TotalSwap)
}

// DiskMetrics represents per-disk and aggregate storage in GB
type DiskMetrics struct {
	Disks          []DiskInfo `json:"disks"`
	TotalSpace     float64    `json:"total_space"`
	UsedSpace      float64    `json:"used_space"`
	AvailableSpace float64    `json:"available_space"`
}

// DiskInfo represents a single mounted disk
type DiskInfo struct {
	Name           string  `json:"name"`
	MountPoint     string  `json:"mount_point"`
	TotalSpace     float64 `json:"total_space"`
	AvailableSpace float64 `json:"available_space"`
	UsedSpace      float64 `json:"used_space"`
	UsagePercent   float64 `json:"usage_percent"`
}

// NetworkMetrics holds counters since boot
type NetworkMetrics struct {
	Interfaces            map[string]NetworkInterface `json:"interfaces,omitempty"`
	TotalBytesReceived    uint64                      `json:"total_bytes_received"`
	TotalBytesTransmitted uint64                      `json:"total_bytes_transmitted"`
}

// NetworkInterface holds counters of a single interface
type NetworkInterface struct {
	BytesReceived      uint64 `json:"bytes_received"`
	BytesTransmitted   uint64 `json:"bytes_transmitted"`
	PacketsReceived    uint64 `json:"packets_received"`
	PacketsTransmitted uint64 `json:"packets_transmitted"`
	ErrorsReceived     uint64 `json:"errors_received"`
	ErrorsTransmitted  uint64 `json:"errors_transmitted"`
}

// LoadAverage is the 1, 5 and 15 minute load triple
type LoadAverage struct {
	One     float64 `json:"one"`
	Five    float64 `json:"five"`
	Fifteen float64 `json:"fifteen"`
}

// IsUnavailable reports whether the given group failed to read.
func (s SystemMetrics) IsUnavailable(g Group) bool {
	return slices.Contains(s.Unavailable, g)
}

// Clone returns a deep copy that shares no slices or maps with s.
func (s SystemMetrics) Clone() SystemMetrics {
	out := s
	out.CPU.PerCoreUsage = slices.Clone(s.CPU.PerCoreUsage)
	out.Disk.Disks = slices.Clone(s.Disk.Disks)
	out.Network.Interfaces = maps.Clone(s.Network.Interfaces)
	out.Unavailable = slices.Clone(s.Unavailable)
	return out
}

func bytesToGB(b uint64) float64 {
	return float64(b) / BytesPerGB
}

// percent returns part/total*100, defined as 0 when total is not positive.
func percent(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return clamp(part/total*100, 0, 100)
}
