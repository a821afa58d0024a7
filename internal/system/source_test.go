package system

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostSourceReadsLocalHost(t *testing.T) {
	ctx := context.Background()
	src, err := NewHostSource(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, src.CPUs())

	m := NewSampler(src, WithSettleDelay(50*time.Millisecond)).Sample(ctx)
	assert.Greater(t, m.CPU.CoreCount, 0)
	assert.Len(t, m.CPU.PerCoreUsage, m.CPU.CoreCount)
	assert.NotContains(t, m.Unavailable, GroupCPU)

	values := []float64{
		m.CPU.UsagePercent,
		m.Memory.TotalMemory, m.Memory.UsedMemory, m.Memory.AvailableMemory, m.Memory.UsagePercent,
		m.Memory.TotalSwap, m.Memory.UsedSwap, m.Memory.SwapPercent(),
		m.Disk.TotalSpace, m.Disk.UsedSpace, m.Disk.AvailableSpace,
		m.LoadAverage.One, m.LoadAverage.Five, m.LoadAverage.Fifteen,
	}
	values = append(values, m.CPU.PerCoreUsage...)
	for _, d := range m.Disk.Disks {
		values = append(values, d.TotalSpace, d.UsedSpace, d.AvailableSpace, d.UsagePercent)
	}
	for i, v := range values {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "value %d is %v", i, v)
	}

	assert.GreaterOrEqual(t, m.CPU.UsagePercent, 0.0)
	assert.LessOrEqual(t, m.CPU.UsagePercent, 100.0)
	assert.LessOrEqual(t, m.Memory.UsagePercent, 100.0)
}

func TestHostSourceRefreshCPUKeepsCoreCount(t *testing.T) {
	ctx := context.Background()
	src, err := NewHostSource(ctx)
	require.NoError(t, err)

	before := len(src.CPUs())
	src.RefreshCPU(ctx)
	assert.Len(t, src.CPUs(), before)
	assert.NotContains(t, src.Unavailable(), GroupCPU)
}
