package system

import (
	"strconv"
	"strings"
)

// Level classifies a usage percentage for colouring.
type Level int

const (
	LevelNormal Level = iota
	LevelWarning
	LevelCritical
)

// Usage breakpoints, in percent.
const (
	WarningThreshold  = 50.0
	CriticalThreshold = 80.0
)

// LevelOf returns the level of a usage percentage.
func LevelOf(pct float64) Level {
	switch {
	case pct < WarningThreshold:
		return LevelNormal
	case pct < CriticalThreshold:
		return LevelWarning
	default:
		return LevelCritical
	}
}

// Color returns the hex colour of a level on a dark tray background.
func (l Level) Color() string {
	switch l {
	case LevelWarning:
		return "#ffff00"
	case LevelCritical:
		return "#ff0000"
	default:
		return "#ffffff"
	}
}

// Marker returns the emoji prefix used by text bars.
func (l Level) Marker() string {
	switch l {
	case LevelWarning:
		return "🟡"
	case LevelCritical:
		return "🔴"
	default:
		return "🟢"
	}
}

var byteUnits = []struct {
	size float64
	name string
}{
	{1 << 30, "GB"},
	{1 << 20, "MB"},
	{1 << 10, "KB"},
}

// FormatBytes converts bytes to a 1024-based human readable string
// ("0 B", "1.5 KB", "1.0 GB").
func FormatBytes(b uint64) string {
	v := float64(b)
	for _, u := range byteUnits {
		if v >= u.size {
			return Float2string(v/u.size, 1) + " " + u.name
		}
	}
	return strconv.FormatUint(b, 10) + " B"
}

// FormatGB formats a GB quantity with one decimal ("15.6 GB").
func FormatGB(gb float64) string {
	return Float2string(gb, 1) + " GB"
}

// FormatUptime renders seconds as "1d 1h 0m", "1h 1m" or "5m". Leading zero
// units are omitted and seconds are rounded down to the minute.
func FormatUptime(seconds uint64) string {
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	mins := (seconds % 3600) / 60

	d := strconv.FormatUint(days, 10)
	h := strconv.FormatUint(hours, 10)
	m := strconv.FormatUint(mins, 10)
	switch {
	case days > 0:
		return d + "d " + h + "h " + m + "m"
	case hours > 0:
		return h + "h " + m + "m"
	default:
		return m + "m"
	}
}

// BarChart renders value/limit as a level marker and a bar of width cells.
func BarChart(value, limit float64, width int) string {
	width = max(width, 0)
	filled := 0
	if limit > 0 {
		filled = int(clamp(value/limit, 0, 1) * float64(width))
	}
	return LevelOf(percent(value, limit)).Marker() + " [" +
		strings.Repeat("|", filled) + strings.Repeat("-", width-filled) + "]"
}

// Float2string converts float to string with specified precision
func Float2string(f float64, precision int) string {
	return strconv.FormatFloat(f, 'f', precision, 64)
}
