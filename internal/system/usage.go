package system

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
)

// DefaultSettleDelay is the pause between the two refreshes of a sample.
// Shorter intervals make the CPU counter deltas too coarse to be useful.
const DefaultSettleDelay = 200 * time.Millisecond

// Sampler turns a Source into SystemMetrics snapshots.
type Sampler struct {
	source      Source
	settle      time.Duration
	minDiskSize uint64
	cpuPrime    bool
	logger      *zap.Logger
	now         func() time.Time
}

// SamplerOption configures a Sampler
type SamplerOption func(*Sampler)

// WithSettleDelay overrides DefaultSettleDelay.
func WithSettleDelay(d time.Duration) SamplerOption {
	return func(s *Sampler) { s.settle = d }
}

// WithMinDiskSize drops disks smaller than size bytes before aggregating.
// Zero keeps every disk.
func WithMinDiskSize(size uint64) SamplerOption {
	return func(s *Sampler) { s.minDiskSize = size }
}

// WithCPUPrime makes the first refresh of a cycle read only the processor
// counters. Every other group is read once, after the settling delay.
func WithCPUPrime() SamplerOption {
	return func(s *Sampler) { s.cpuPrime = true }
}

// WithLogger sets the logger used to report degraded reads.
func WithLogger(logger *zap.Logger) SamplerOption {
	return func(s *Sampler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSampler returns a Sampler reading from src.
func NewSampler(src Source, opts ...SamplerOption) *Sampler {
	s := &Sampler{
		source: src,
		settle: DefaultSettleDelay,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sample refreshes the source twice around the settling delay and assembles
// one snapshot. It never fails: groups that cannot be read are zeroed and
// listed in SystemMetrics.Unavailable. If ctx ends during the settling delay
// the second refresh is skipped and the snapshot holds the first readings.
func (s *Sampler) Sample(ctx context.Context) SystemMetrics {
	if s.cpuPrime {
		s.source.RefreshCPU(ctx)
	} else {
		s.source.Refresh(ctx)
	}

	if s.settle > 0 {
		timer := time.NewTimer(s.settle)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}

	if ctx.Err() == nil {
		s.source.Refresh(ctx)
	}

	metrics := SystemMetrics{
		CPU:         s.cpuMetrics(),
		Memory:      s.memoryMetrics(),
		Disk:        s.diskMetrics(),
		Network:     s.networkMetrics(),
		Uptime:      s.source.Uptime(),
		LoadAverage: s.source.LoadAverage(),
		SampledAt:   s.now(),
		Unavailable: append([]Group(nil), s.source.Unavailable()...),
	}
	for _, g := range metrics.Unavailable {
		s.logger.Debug("metric group unavailable, reporting zero values", zap.String("group", string(g)))
	}
	return metrics
}

func (s *Sampler) cpuMetrics() CPUMetrics {
	cpus := s.source.CPUs()
	m := CPUMetrics{
		CoreCount:    len(cpus),
		PerCoreUsage: make([]float64, len(cpus)),
		Name:         s.source.CPUBrand(),
	}
	var sum float64
	for i, c := range cpus {
		m.PerCoreUsage[i] = c.UsagePercent
		sum += c.UsagePercent
	}
	if len(cpus) > 0 {
		m.UsagePercent = clamp(sum/float64(len(cpus)), 0, 100)
		m.Frequency = cpus[0].Frequency
	}
	return m
}

func (s *Sampler) memoryMetrics() MemoryMetrics {
	r := s.source.Memory()
	m := MemoryMetrics{
		TotalMemory:     bytesToGB(r.Total),
		UsedMemory:      bytesToGB(r.Used),
		AvailableMemory: bytesToGB(r.Available),
		TotalSwap:       bytesToGB(r.SwapTotal),
		UsedSwap:        bytesToGB(r.SwapUsed),
	}
	m.UsagePercent = percent(m.UsedMemory, m.TotalMemory)
	return m
}

func (s *Sampler) diskMetrics() DiskMetrics {
	var m DiskMetrics
	for _, r := range s.source.Disks() {
		if r.Total < s.minDiskSize {
			continue
		}
		avail := min(r.Available, r.Total)
		info := DiskInfo{
			Name:           r.Name,
			MountPoint:     r.MountPoint,
			TotalSpace:     bytesToGB(r.Total),
			AvailableSpace: bytesToGB(avail),
			UsedSpace:      bytesToGB(r.Total - avail),
		}
		info.UsagePercent = percent(info.UsedSpace, info.TotalSpace)

		m.Disks = append(m.Disks, info)
		m.TotalSpace += info.TotalSpace
		m.UsedSpace += info.UsedSpace
		m.AvailableSpace += info.AvailableSpace
	}
	return m
}

func (s *Sampler) networkMetrics() NetworkMetrics {
	src := s.source.Networks()
	m := NetworkMetrics{Interfaces: make(map[string]NetworkInterface, len(src))}
	for name, iface := range src {
		m.Interfaces[name] = iface
		m.TotalBytesReceived += iface.BytesReceived
		m.TotalBytesTransmitted += iface.BytesTransmitted
	}
	return m
}

func clamp(val, lo, hi float64) float64 {
	if math.IsNaN(val) {
		return lo
	}
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
