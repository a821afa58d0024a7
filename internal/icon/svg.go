package icon

import (
	"bytes"
	"fmt"
	"text/template"

	"sysmonbar/internal/system"
)

var svgTemplate = template.Must(template.New("icon").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="120" height="32" xmlns="http://www.w3.org/2000/svg">
  <rect width="100%" height="100%" fill="transparent" />
  <text x="5" y="13" font-family="monospace" font-size="12px" fill="#ffffff" font-weight="bold" text-anchor="start" dominant-baseline="middle">CPU</text>
  <text x="5" y="27" font-family="monospace" font-size="14px" fill="{{.CPUColor}}" font-weight="bold" text-anchor="start" dominant-baseline="middle">{{.CPU}}%</text>
  <text x="54" y="13" font-family="monospace" font-size="12px" fill="#ffffff" font-weight="bold" text-anchor="start" dominant-baseline="middle">RAM</text>
  <text x="54" y="27" font-family="monospace" font-size="14px" fill="{{.RAMColor}}" font-weight="bold" text-anchor="start" dominant-baseline="middle">{{.RAM}}gb</text>
</svg>
`))

// SVGRenderer writes a 120x32 text icon showing CPU percent and used RAM.
type SVGRenderer struct {
	slots *Slots
}

// NewSVGRenderer returns a renderer writing into dir.
func NewSVGRenderer(dir string) *SVGRenderer {
	return &SVGRenderer{slots: NewSlots(dir, "sysmonbar_icon", "svg")}
}

// Render writes the next slot and returns its path.
func (r *SVGRenderer) Render(m system.SystemMetrics) (string, error) {
	data, err := RenderSVG(m)
	if err != nil {
		return "", err
	}
	path := r.slots.Next()
	if err := writeFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// RenderSVG returns the SVG document for a snapshot.
func RenderSVG(m system.SystemMetrics) ([]byte, error) {
	var buf bytes.Buffer
	err := svgTemplate.Execute(&buf, struct {
		CPU, RAM           string
		CPUColor, RAMColor string
	}{
		CPU:      system.Float2string(m.CPU.UsagePercent, 0),
		RAM:      system.Float2string(m.Memory.UsedMemory, 1),
		CPUColor: system.LevelOf(m.CPU.UsagePercent).Color(),
		RAMColor: system.LevelOf(m.Memory.UsagePercent).Color(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute icon template: %w", err)
	}
	return buf.Bytes(), nil
}
