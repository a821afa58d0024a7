// Package tray holds the toolkit-agnostic label model of the tray menu. A GUI
// binding passes a callback to NewMenu and copies the labels into its widgets.
package tray

import (
	"fmt"
	"maps"
	"sync"

	"sysmonbar/internal/system"
)

// barWidth is the number of cells in a usage bar.
const barWidth = 40

// Item identifies a menu entry whose label changes with every snapshot.
type Item string

const (
	ItemCPUModel    Item = "cpu_model"
	ItemCPUUsage    Item = "cpu_usage"
	ItemMemTotal    Item = "mem_total"
	ItemMemUsage    Item = "mem_usage"
	ItemSwap        Item = "swap"
	ItemDiskTotal   Item = "disk_total"
	ItemDiskFree    Item = "disk_free"
	ItemNetRx       Item = "net_rx"
	ItemNetTx       Item = "net_tx"
	ItemLoadAverage Item = "load_average"
	ItemUptime      Item = "uptime"
)

// Section is a titled group of items, in display order.
type Section struct {
	Title string
	Items []Item
}

// Layout is the fixed menu layout.
var Layout = []Section{
	{Title: "=== PROCESSOR ===", Items: []Item{ItemCPUModel, ItemCPUUsage}},
	{Title: "=== MEMORY ===", Items: []Item{ItemMemTotal, ItemMemUsage, ItemSwap}},
	{Title: "=== STORAGE ===", Items: []Item{ItemDiskTotal, ItemDiskFree}},
	{Title: "=== NETWORK ===", Items: []Item{ItemNetRx, ItemNetTx}},
	{Title: "=== SYSTEM ===", Items: []Item{ItemLoadAverage, ItemUptime}},
}

const unavailable = "n/a"

// Menu keeps the current label of every item and the current icon path.
// Apply and SetIcon are called from the UI goroutine; Labels and Icon may be
// read from anywhere.
type Menu struct {
	mu       sync.RWMutex
	labels   map[Item]string
	icon     string
	onChange func(labels map[Item]string, icon string)
}

// NewMenu returns an empty Menu. onChange, if not nil, is called after every
// update with a copy of the labels.
func NewMenu(onChange func(labels map[Item]string, icon string)) *Menu {
	return &Menu{labels: make(map[Item]string), onChange: onChange}
}

// Apply recomputes every label from the snapshot.
func (m *Menu) Apply(s system.SystemMetrics) {
	labels := Labels(s)

	m.mu.Lock()
	m.labels = labels
	icon := m.icon
	m.mu.Unlock()

	m.notify(maps.Clone(labels), icon)
}

// SetIcon records the icon artifact path.
func (m *Menu) SetIcon(path string) {
	m.mu.Lock()
	m.icon = path
	labels := maps.Clone(m.labels)
	m.mu.Unlock()

	m.notify(labels, path)
}

// Label returns the current label of an item. The boolean is false when the
// item is hidden, e.g. swap on a host without swap.
func (m *Menu) Label(item Item) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.labels[item]
	return l, ok
}

// Icon returns the current icon path.
func (m *Menu) Icon() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.icon
}

// Lines renders the whole menu as text, one entry per line.
func (m *Menu) Lines() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var lines []string
	for _, sec := range Layout {
		lines = append(lines, sec.Title)
		for _, item := range sec.Items {
			if l, ok := m.labels[item]; ok {
				lines = append(lines, l)
			}
		}
	}
	return lines
}

func (m *Menu) notify(labels map[Item]string, icon string) {
	if m.onChange != nil {
		m.onChange(labels, icon)
	}
}

// Labels computes the label of every visible item for a snapshot.
func Labels(s system.SystemMetrics) map[Item]string {
	labels := make(map[Item]string, 11)

	name := s.CPU.Name
	if name == "" {
		name = "Unknown CPU"
	}
	labels[ItemCPUModel] = "Model: " + name
	if s.IsUnavailable(system.GroupCPU) {
		labels[ItemCPUUsage] = "CPU: " + unavailable
	} else {
		labels[ItemCPUUsage] = system.BarChart(s.CPU.UsagePercent, 100, barWidth)
	}

	if s.IsUnavailable(system.GroupMemory) {
		labels[ItemMemTotal] = "Total: " + unavailable
		labels[ItemMemUsage] = "RAM: " + unavailable
	} else {
		labels[ItemMemTotal] = "Total: " + system.FormatGB(s.Memory.TotalMemory)
		labels[ItemMemUsage] = system.BarChart(s.Memory.UsagePercent, 100, barWidth)
		if s.Memory.HasSwap() {
			labels[ItemSwap] = fmt.Sprintf("SWAP: %.1f/%.1f GB (%.1f%%)",
				s.Memory.UsedSwap, s.Memory.TotalSwap, s.Memory.SwapPercent())
		}
	}

	if s.IsUnavailable(system.GroupDisk) {
		labels[ItemDiskTotal] = "Total: " + unavailable
		labels[ItemDiskFree] = "Available: " + unavailable
	} else {
		labels[ItemDiskTotal] = "Total: " + system.FormatGB(s.Disk.TotalSpace)
		labels[ItemDiskFree] = "Available: " + system.FormatGB(s.Disk.AvailableSpace)
	}

	if s.IsUnavailable(system.GroupNetwork) {
		labels[ItemNetRx] = "Total RX: " + unavailable
		labels[ItemNetTx] = "Total TX: " + unavailable
	} else {
		labels[ItemNetRx] = "Total RX: ↓" + system.FormatBytes(s.Network.TotalBytesReceived)
		labels[ItemNetTx] = "Total TX: ↑" + system.FormatBytes(s.Network.TotalBytesTransmitted)
	}

	if !s.IsUnavailable(system.GroupLoad) {
		labels[ItemLoadAverage] = fmt.Sprintf("Load: %.2f %.2f %.2f",
			s.LoadAverage.One, s.LoadAverage.Five, s.LoadAverage.Fifteen)
	}

	if s.IsUnavailable(system.GroupHost) {
		labels[ItemUptime] = "Uptime: " + unavailable
	} else {
		labels[ItemUptime] = "Uptime: " + system.FormatUptime(s.Uptime)
	}
	return labels
}
