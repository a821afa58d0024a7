package system

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
)

// Source is the OS-facing collaborator read by the Sampler. Readings are
// only meaningful after a Refresh; CPU usage needs two refreshes spaced in
// time because it is computed from counter deltas.
type Source interface {
	// Refresh re-reads every group.
	Refresh(ctx context.Context)
	// RefreshCPU re-reads only the processor counters.
	RefreshCPU(ctx context.Context)

	CPUs() []CPUReading
	CPUBrand() string
	Memory() MemoryReading
	Disks() []DiskReading
	Networks() map[string]NetworkInterface
	Uptime() uint64
	LoadAverage() LoadAverage

	// Unavailable lists groups whose last read failed.
	Unavailable() []Group
}

// CPUReading is the state of one logical core
type CPUReading struct {
	UsagePercent float64
	Frequency    uint64 // MHz
}

// MemoryReading is raw memory state in bytes
type MemoryReading struct {
	Total     uint64
	Used      uint64
	Available uint64
	SwapTotal uint64
	SwapUsed  uint64
}

// DiskReading is raw disk state in bytes
type DiskReading struct {
	Name       string
	MountPoint string
	Total      uint64
	Available  uint64
}

// HostSource reads the local host through gopsutil. It is not safe for
// concurrent use; every sampling context owns its own instance.
type HostSource struct {
	prevTimes []cpu.TimesStat
	cpus      []CPUReading
	brand     string
	memory    MemoryReading
	disks     []DiskReading
	networks  map[string]NetworkInterface
	uptime    uint64
	load      LoadAverage
	failed    map[Group]error
}

// NewHostSource creates a HostSource and performs the first refresh. It fails
// only when no processor counters can be read at all.
func NewHostSource(ctx context.Context) (*HostSource, error) {
	s := &HostSource{failed: make(map[Group]error)}
	if _, err := cpu.TimesWithContext(ctx, true); err != nil {
		return nil, fmt.Errorf("failed to read CPU counters: %w", err)
	}
	s.Refresh(ctx)
	return s, nil
}

// Refresh re-reads every group. Failures leave the group zeroed.
func (s *HostSource) Refresh(ctx context.Context) {
	clear(s.failed)
	s.refreshCPU(ctx)
	s.refreshCPUInfo(ctx)
	s.refreshMemory(ctx)
	s.refreshDisks(ctx)
	s.refreshNetworks(ctx)
	s.refreshHost(ctx)
	s.refreshLoad(ctx)
}

// RefreshCPU re-reads processor counters only.
func (s *HostSource) RefreshCPU(ctx context.Context) {
	delete(s.failed, GroupCPU)
	s.refreshCPU(ctx)
}

func (s *HostSource) CPUs() []CPUReading { return s.cpus }

func (s *HostSource) CPUBrand() string { return s.brand }

func (s *HostSource) Memory() MemoryReading { return s.memory }

func (s *HostSource) Disks() []DiskReading { return s.disks }

func (s *HostSource) Networks() map[string]NetworkInterface { return s.networks }

func (s *HostSource) Uptime() uint64 { return s.uptime }

func (s *HostSource) LoadAverage() LoadAverage { return s.load }

// Unavailable lists groups whose last read failed.
func (s *HostSource) Unavailable() []Group {
	var out []Group
	for _, g := range []Group{GroupCPU, GroupMemory, GroupDisk, GroupNetwork, GroupHost, GroupLoad} {
		if _, ok := s.failed[g]; ok {
			out = append(out, g)
		}
	}
	return out
}

func (s *HostSource) refreshCPU(ctx context.Context) {
	times, err := cpu.TimesWithContext(ctx, true)
	if err != nil || len(times) == 0 {
		s.fail(GroupCPU, err)
		s.prevTimes = nil
		for i := range s.cpus {
			s.cpus[i].UsagePercent = 0
		}
		return
	}

	if len(s.cpus) != len(times) {
		s.cpus = make([]CPUReading, len(times))
	}
	for i, t := range times {
		var usage float64
		if len(s.prevTimes) == len(times) {
			usage = coreUsage(s.prevTimes[i], t)
		}
		s.cpus[i].UsagePercent = usage
	}
	s.prevTimes = times
}

func (s *HostSource) refreshCPUInfo(ctx context.Context) {
	info, err := cpu.InfoWithContext(ctx)
	if err != nil || len(info) == 0 {
		return
	}
	s.brand = strings.TrimSpace(info[0].ModelName)
	for i := range s.cpus {
		// Some platforms report a single entry for the whole package.
		src := info[0]
		if i < len(info) {
			src = info[i]
		}
		if src.Mhz > 0 {
			s.cpus[i].Frequency = uint64(src.Mhz)
		}
	}
}

func (s *HostSource) refreshMemory(ctx context.Context) {
	s.memory = MemoryReading{}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		s.fail(GroupMemory, err)
		return
	}
	s.memory.Total = vm.Total
	s.memory.Used = vm.Used
	s.memory.Available = vm.Available

	// A host without swap is not a failure.
	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		s.memory.SwapTotal = swap.Total
		s.memory.SwapUsed = swap.Used
	}
}

func (s *HostSource) refreshDisks(ctx context.Context) {
	s.disks = s.disks[:0]
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		s.fail(GroupDisk, err)
		return
	}

	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		if seen[p.Device] {
			continue
		}
		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil || usage.Total == 0 {
			continue
		}
		seen[p.Device] = true
		s.disks = append(s.disks, DiskReading{
			Name:       p.Device,
			MountPoint: p.Mountpoint,
			Total:      usage.Total,
			Available:  usage.Free,
		})
	}
}

func (s *HostSource) refreshNetworks(ctx context.Context) {
	counters, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		s.fail(GroupNetwork, err)
		s.networks = nil
		return
	}
	s.networks = make(map[string]NetworkInterface, len(counters))
	for _, c := range counters {
		s.networks[c.Name] = NetworkInterface{
			BytesReceived:      c.BytesRecv,
			BytesTransmitted:   c.BytesSent,
			PacketsReceived:    c.PacketsRecv,
			PacketsTransmitted: c.PacketsSent,
			ErrorsReceived:     c.Errin,
			ErrorsTransmitted:  c.Errout,
		}
	}
}

func (s *HostSource) refreshHost(ctx context.Context) {
	uptime, err := host.UptimeWithContext(ctx)
	if err != nil {
		s.fail(GroupHost, err)
		s.uptime = 0
		return
	}
	s.uptime = uptime
}

func (s *HostSource) refreshLoad(ctx context.Context) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		s.fail(GroupLoad, err)
		s.load = LoadAverage{}
		return
	}
	s.load = LoadAverage{One: avg.Load1, Five: avg.Load5, Fifteen: avg.Load15}
}

func (s *HostSource) fail(g Group, err error) {
	if err == nil {
		err = fmt.Errorf("no %s data", g)
	}
	s.failed[g] = err
}

// coreUsage computes busy time over elapsed time between two readings.
func coreUsage(prev, cur cpu.TimesStat) float64 {
	busy := func(t cpu.TimesStat) float64 {
		return t.User + t.System + t.Nice + t.Irq + t.Softirq + t.Steal
	}
	total := func(t cpu.TimesStat) float64 {
		return busy(t) + t.Idle + t.Iowait
	}

	deltaTotal := total(cur) - total(prev)
	if deltaTotal <= 0 {
		return 0
	}
	return clamp((busy(cur)-busy(prev))/deltaTotal*100, 0, 100)
}
