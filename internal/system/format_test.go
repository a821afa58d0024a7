package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{1_073_741_824, "1.0 GB"},
		{3 * 1_073_741_824 / 2, "1.5 GB"},
		{2048 * 1_073_741_824, "2048.0 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.in), "FormatBytes(%d)", tt.in)
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0m"},
		{59, "0m"},
		{60, "1m"},
		{3600, "1h 0m"},
		{3661, "1h 1m"},
		{86400, "1d 0h 0m"},
		{90000, "1d 1h 0m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatUptime(tt.in), "FormatUptime(%d)", tt.in)
	}
}

func TestLevelOf(t *testing.T) {
	assert.Equal(t, LevelNormal, LevelOf(0))
	assert.Equal(t, LevelNormal, LevelOf(49.9))
	assert.Equal(t, LevelWarning, LevelOf(50))
	assert.Equal(t, LevelWarning, LevelOf(79.9))
	assert.Equal(t, LevelCritical, LevelOf(80))
	assert.Equal(t, LevelCritical, LevelOf(100))

	assert.Equal(t, "#ffffff", LevelNormal.Color())
	assert.Equal(t, "#ffff00", LevelWarning.Color())
	assert.Equal(t, "#ff0000", LevelCritical.Color())
}

func TestBarChart(t *testing.T) {
	assert.Equal(t, "🟢 [----------]", BarChart(0, 100, 10))
	assert.Equal(t, "🟡 [|||||-----]", BarChart(50, 100, 10))
	assert.Equal(t, "🔴 [||||||||||]", BarChart(150, 100, 10))
	assert.Equal(t, "🟢 [----]", BarChart(10, 0, 4))
	assert.Equal(t, "🟢 []", BarChart(10, 100, -3))
}

func TestFormatGB(t *testing.T) {
	assert.Equal(t, "15.6 GB", FormatGB(15.62))
	assert.Equal(t, "0.0 GB", FormatGB(0))
}
