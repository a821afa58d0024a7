// Package icon renders the tray icon artifact and skips regeneration while
// the displayed values stay the same.
package icon

import (
	"fmt"
	"math"

	"sysmonbar/internal/system"
)

// Renderer writes an icon artifact for a snapshot and returns its path.
type Renderer interface {
	Render(snapshot system.SystemMetrics) (string, error)
}

// Key is what the icon displays, reduced to the precision that matters for
// deciding whether to redraw.
type Key struct {
	CPU int // percent, rounded
	RAM int // GB, truncated
}

// KeyOf returns the Key of a snapshot.
func KeyOf(m system.SystemMetrics) Key {
	return Key{
		CPU: int(math.Round(m.CPU.UsagePercent)),
		RAM: int(m.Memory.UsedMemory),
	}
}

// Cache is a dirty-checking front for a Renderer. It is meant for a single
// consumer goroutine and does no locking.
type Cache struct {
	renderer Renderer
	last     *Key
	path     string
	renders  int
}

// NewCache returns an empty Cache.
func NewCache(r Renderer) *Cache {
	return &Cache{renderer: r}
}

// GetIconPath returns the artifact for the snapshot, rendering a new one only
// when the rounded CPU or RAM value changed or nothing was rendered yet. On
// render failure the previous baseline is kept and the error returned.
func (c *Cache) GetIconPath(m system.SystemMetrics) (string, error) {
	key := KeyOf(m)
	if c.last != nil && *c.last == key && c.path != "" {
		return c.path, nil
	}

	path, err := c.renderer.Render(m)
	if err != nil {
		return "", fmt.Errorf("failed to render icon: %w", err)
	}
	c.last = &key
	c.path = path
	c.renders++
	return path, nil
}

func (c *Cache) Path() string {
	return c.path
}

func (c *Cache) Renders() int {
	return c.renders
}

// Icon formats accepted by NewRenderer.
const (
	FormatSVG = "svg"
	FormatICO = "ico"
)

// NewRenderer returns the renderer for format, writing into dir.
func NewRenderer(format, dir string) (Renderer, error) {
	switch format {
	case FormatSVG, "":
		return NewSVGRenderer(dir), nil
	case FormatICO:
		return NewICORenderer(dir), nil
	default:
		return nil, fmt.Errorf("unknown icon format %q", format)
	}
}
