package capture

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/drawing"
)

type PadOptions struct {
	PenColor             string
	MinWidth             float64
	MaxWidth             float64
	DotSize              float64
	VelocityFilterWeight float64
	// PixelRatio multiplies the surface size when rasterising, like a
	// browser canvas on a high-DPI display. Values below 1 are treated as 1.
	PixelRatio float64
}

func DefaultPadOptions() PadOptions {
	return PadOptions{
		PenColor:             drawing.DefaultPenColor,
		MinWidth:             drawing.DefaultMinWidth,
		MaxWidth:             drawing.DefaultMaxWidth,
		VelocityFilterWeight: drawing.DefaultVelocityFilterWeight,
		PixelRatio:           1,
	}
}

// Pad is the in-memory drawing surface a widget binds to. It records
// pointer gestures as strokes and can rasterise them. A Pad is owned by
// a single widget and is not safe for concurrent use.
type Pad struct {
	width, height int
	opts          PadOptions

	minWidth, maxWidth float64
	composite          string
	mode               drawing.Mode

	strokes    drawing.Drawing
	inStroke   bool
	background *image.NRGBA
}

func NewPad(width, height int, opts PadOptions) (*Pad, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("pad size must be positive, got %dx%d", width, height)
	}
	if opts.PixelRatio < 1 {
		opts.PixelRatio = 1
	}
	if opts.PenColor == "" {
		opts.PenColor = drawing.DefaultPenColor
	}
	if opts.MinWidth <= 0 && opts.MaxWidth <= 0 {
		opts.MinWidth, opts.MaxWidth = drawing.DefaultMinWidth, drawing.DefaultMaxWidth
	}

	p := &Pad{width: width, height: height, opts: opts}
	p.SetMode(drawing.ModeDraw)
	return p, nil
}

func (p *Pad) Size() (int, int) { return p.width, p.height }

func (p *Pad) Mode() drawing.Mode { return p.mode }

// SetMode switches between ink and eraser. Strokes already recorded keep
// the settings they were drawn with.
func (p *Pad) SetMode(m drawing.Mode) {
	switch m {
	case drawing.ModeErase:
		p.mode = drawing.ModeErase
		p.composite = drawing.CompositeDestinationOut
		p.minWidth, p.maxWidth = drawing.EraseWidth, drawing.EraseWidth
	default:
		p.mode = drawing.ModeDraw
		p.composite = drawing.CompositeSourceOver
		p.minWidth, p.maxWidth = p.opts.MinWidth, p.opts.MaxWidth
	}
}

func (p *Pad) PointerDown(pt drawing.Point) {
	p.strokes = append(p.strokes, drawing.Stroke{
		PenColor:             p.opts.PenColor,
		DotSize:              p.opts.DotSize,
		MinWidth:             p.minWidth,
		MaxWidth:             p.maxWidth,
		VelocityFilterWeight: p.opts.VelocityFilterWeight,
		CompositeOperation:   p.composite,
		Points:               []drawing.Point{pt},
	})
	p.inStroke = true
}

func (p *Pad) PointerMove(pt drawing.Point) {
	if !p.inStroke {
		return
	}
	p.appendPoint(pt)
}

// InStroke reports whether a gesture is open.
func (p *Pad) InStroke() bool { return p.inStroke }

// EndStroke closes the open gesture at its last recorded point.
func (p *Pad) EndStroke() { p.inStroke = false }

func (p *Pad) PointerUp(pt drawing.Point) {
	if !p.inStroke {
		return
	}
	p.appendPoint(pt)
	p.inStroke = false
}

func (p *Pad) appendPoint(pt drawing.Point) {
	st := &p.strokes[len(p.strokes)-1]
	last := st.Points[len(st.Points)-1]
	if last.X == pt.X && last.Y == pt.Y {
		return
	}
	st.Points = append(st.Points, pt)
}

// Stroke records a complete gesture through pts.
func (p *Pad) Stroke(pts ...drawing.Point) {
	if len(pts) == 0 {
		return
	}
	p.PointerDown(pts[0])
	for _, pt := range pts[1:] {
		p.PointerMove(pt)
	}
	p.PointerUp(pts[len(pts)-1])
}

// Clear discards every stroke and any loaded snapshot.
func (p *Pad) Clear() {
	p.strokes = nil
	p.inStroke = false
	p.background = nil
}

func (p *Pad) IsEmpty() bool {
	return len(p.strokes) == 0 && p.background == nil
}

func (p *Pad) ToData() drawing.Drawing {
	if len(p.strokes) == 0 {
		return drawing.Drawing{}
	}
	return p.strokes.Clone()
}

// FromData replaces the surface content with d.
func (p *Pad) FromData(d drawing.Drawing) {
	p.Clear()
	p.strokes = d.Clone()
}

// MaxSnapshotScale bounds the snapshots FromDataURL accepts: at most this
// many times the surface's pixel area, enough for a canvas exported at a
// device pixel ratio of 4.
const MaxSnapshotScale = 16

// FromDataURL loads a flattened snapshot and uses it as the surface
// background, scaled to the surface. The pad is no longer empty.
func (p *Pad) FromDataURL(url string) error {
	w, h := p.pixelSize()
	img, err := drawing.DecodeDataURLLimit(url, w*h*MaxSnapshotScale)
	if err != nil {
		return err
	}
	p.background = drawing.Fit(img, w, h)
	return nil
}

// Image rasterises the background and every stroke at the pixel ratio.
func (p *Pad) Image() *image.NRGBA {
	w, h := p.pixelSize()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	if p.background != nil {
		draw.Draw(img, img.Bounds(), p.background, image.Point{}, draw.Src)
	}
	drawing.RenderScaled(img, p.strokes, p.opts.PixelRatio)
	return img
}

func (p *Pad) ToDataURL() (string, error) {
	return drawing.EncodeDataURL(p.Image())
}

func (p *Pad) pixelSize() (int, int) {
	r := p.opts.PixelRatio
	return int(math.Round(float64(p.width) * r)), int(math.Round(float64(p.height) * r))
}
