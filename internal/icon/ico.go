package icon

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	ico "github.com/Kodeworks/golang-image-ico"

	"sysmonbar/internal/system"
)

const icoSize = 32

var (
	levelColors = map[system.Level]color.RGBA{
		system.LevelNormal:   {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		system.LevelWarning:  {R: 0xff, G: 0xff, B: 0x00, A: 0xff},
		system.LevelCritical: {R: 0xff, G: 0x00, B: 0x00, A: 0xff},
	}
	frameColor = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

// ICORenderer writes a 32x32 icon with two vertical bars, CPU on the left
// and RAM on the right, for trays that cannot load SVG.
type ICORenderer struct {
	slots *Slots
}

// NewICORenderer returns a renderer writing into dir.
func NewICORenderer(dir string) *ICORenderer {
	return &ICORenderer{slots: NewSlots(dir, "sysmonbar_icon", "ico")}
}

// Render writes the next slot and returns its path.
func (r *ICORenderer) Render(m system.SystemMetrics) (string, error) {
	var buf bytes.Buffer
	if err := ico.Encode(&buf, DrawBars(m)); err != nil {
		return "", fmt.Errorf("failed to encode icon: %w", err)
	}
	path := r.slots.Next()
	if err := writeFile(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

// DrawBars rasterises the CPU and RAM usage bars.
func DrawBars(m system.SystemMetrics) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, icoSize, icoSize))
	drawBar(img, image.Rect(2, 1, 15, icoSize-1), m.CPU.UsagePercent)
	drawBar(img, image.Rect(17, 1, 30, icoSize-1), m.Memory.UsagePercent)
	return img
}

// drawBar frames r and fills it from the bottom in proportion to pct.
func drawBar(img *image.RGBA, r image.Rectangle, pct float64) {
	frame := image.NewUniform(frameColor)
	draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), frame, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), frame, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), frame, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), frame, image.Point{}, draw.Src)

	inner := r.Inset(1)
	if math.IsNaN(pct) {
		pct = 0
	}
	pct = min(max(pct, 0), 100)
	h := int(float64(inner.Dy())*pct/100 + 0.5)
	if h == 0 {
		return
	}
	fill := image.NewUniform(levelColors[system.LevelOf(pct)])
	draw.Draw(img, image.Rect(inner.Min.X, inner.Max.Y-h, inner.Max.X, inner.Max.Y), fill, image.Point{}, draw.Src)
}
