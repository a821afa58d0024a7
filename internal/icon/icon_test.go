package icon

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysmonbar/internal/system"
)

func metrics(cpu, ramGB, ramPct float64) system.SystemMetrics {
	return system.SystemMetrics{
		CPU:    system.CPUMetrics{UsagePercent: cpu},
		Memory: system.MemoryMetrics{UsedMemory: ramGB, UsagePercent: ramPct},
	}
}

type countingRenderer struct {
	slots  *Slots
	writes int
	err    error
}

func (r *countingRenderer) Render(system.SystemMetrics) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.writes++
	return r.slots.Next(), nil
}

func TestCacheSkipsUnchangedRoundedValues(t *testing.T) {
	r := &countingRenderer{slots: NewSlots("/tmp", "t", "svg")}
	c := NewCache(r)

	first, err := c.GetIconPath(metrics(12.4, 3.2, 20))
	require.NoError(t, err)
	assert.Equal(t, 1, r.writes)

	// 12.4 and 11.6 both round to 12; 3.2 and 3.9 both truncate to 3.
	second, err := c.GetIconPath(metrics(11.6, 3.9, 25))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, r.writes)
	assert.Equal(t, 1, c.Renders())
}

func TestCacheRegeneratesOnChange(t *testing.T) {
	r := &countingRenderer{slots: NewSlots("/tmp", "t", "svg")}
	c := NewCache(r)

	p1, err := c.GetIconPath(metrics(10, 3, 20))
	require.NoError(t, err)

	p2, err := c.GetIconPath(metrics(11, 3, 20))
	require.NoError(t, err)
	assert.Equal(t, 2, r.writes)
	assert.NotEqual(t, p1, p2)

	p3, err := c.GetIconPath(metrics(11, 4.1, 20))
	require.NoError(t, err)
	assert.Equal(t, 3, r.writes)
	assert.Equal(t, p1, p3)
	assert.Equal(t, p3, c.Path())
}

func TestCacheRenderErrorKeepsBaseline(t *testing.T) {
	r := &countingRenderer{slots: NewSlots("/tmp", "t", "svg")}
	c := NewCache(r)

	p1, err := c.GetIconPath(metrics(10, 3, 20))
	require.NoError(t, err)

	r.err = errors.New("disk full")
	_, err = c.GetIconPath(metrics(50, 3, 20))
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, p1, c.Path())

	// The failed value is still considered dirty once the renderer recovers.
	r.err = nil
	_, err = c.GetIconPath(metrics(50, 3, 20))
	require.NoError(t, err)
	assert.Equal(t, 2, r.writes)
}

func TestSlotsAlternate(t *testing.T) {
	s := NewSlots("/run/icons", "x", "svg")
	paths := s.Paths()
	assert.Equal(t, "/run/icons/x_a.svg", paths[0])
	assert.Equal(t, "/run/icons/x_b.svg", paths[1])

	for i := 0; i < 6; i++ {
		assert.Equal(t, paths[i%2], s.Next(), "write %d", i)
	}
}

func TestSlotsAreIndependentPerInstance(t *testing.T) {
	a := NewSlots("/d", "x", "svg")
	b := NewSlots("/d", "x", "svg")

	assert.Equal(t, "/d/x_a.svg", a.Next())
	assert.Equal(t, "/d/x_a.svg", b.Next())
	assert.Equal(t, "/d/x_b.svg", a.Next())
}

func TestSVGRendererWritesAlternatingFiles(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(NewSVGRenderer(dir))

	p1, err := c.GetIconPath(metrics(42, 7.31, 30))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sysmonbar_icon_a.svg"), p1)

	data, err := os.ReadFile(p1)
	require.NoError(t, err)
	svg := string(data)
	assert.True(t, strings.HasPrefix(svg, `<?xml`))
	assert.Contains(t, svg, ">42%<")
	assert.Contains(t, svg, ">7.3gb<")

	p2, err := c.GetIconPath(metrics(90, 7.31, 85))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sysmonbar_icon_b.svg"), p2)

	data, err = os.ReadFile(p2)
	require.NoError(t, err)
	assert.Contains(t, string(data), `fill="#ff0000" font-weight="bold" text-anchor="start" dominant-baseline="middle">90%`)
}

func TestRenderSVGColors(t *testing.T) {
	data, err := RenderSVG(metrics(60, 1, 10))
	require.NoError(t, err)
	svg := string(data)
	assert.Contains(t, svg, `fill="#ffff00" font-weight="bold" text-anchor="start" dominant-baseline="middle">60%`)
	assert.Contains(t, svg, `fill="#ffffff" font-weight="bold" text-anchor="start" dominant-baseline="middle">1.0gb`)
}

func TestSVGRendererWriteFailure(t *testing.T) {
	r := NewSVGRenderer(filepath.Join(t.TempDir(), "missing"))
	_, err := r.Render(metrics(1, 1, 1))
	assert.Error(t, err)
}

func TestICORenderer(t *testing.T) {
	dir := t.TempDir()
	r := NewICORenderer(dir)

	p, err := r.Render(metrics(50, 2, 90))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sysmonbar_icon_a.ico"), p)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Greater(t, len(data), 6)
	// ICONDIR header: reserved 0, type 1 (icon).
	assert.Equal(t, []byte{0, 0, 1, 0}, data[:4])

	p2, err := r.Render(metrics(1, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sysmonbar_icon_b.ico"), p2)
}

func TestDrawBars(t *testing.T) {
	img := DrawBars(metrics(100, 0, 0))

	// CPU bar is full and red at the bottom, RAM bar has no fill.
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, img.RGBAAt(8, 29))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(23, 29))
	assert.Equal(t, frameColor, img.RGBAAt(2, 15))

	img = DrawBars(metrics(0, 0, 60))
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, A: 0xff}, img.RGBAAt(23, 29))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(23, 3))
}

func TestNewRenderer(t *testing.T) {
	r, err := NewRenderer("", "/tmp")
	require.NoError(t, err)
	assert.IsType(t, &SVGRenderer{}, r)

	r, err = NewRenderer(FormatICO, "/tmp")
	require.NoError(t, err)
	assert.IsType(t, &ICORenderer{}, r)

	_, err = NewRenderer("bmp", "/tmp")
	assert.Error(t, err)
}
