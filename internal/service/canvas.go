package service

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/capture"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/drawing"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/metrics"
)

// CanvasSettings sizes the headless pads that submissions are replayed on.
type CanvasSettings struct {
	SignatureWidth  int
	SignatureHeight int
	PainWidth       int
	PainHeight      int
	PixelRatio      float64
	MaxThumbWidth   int
	MaxStrokePoints int
}

func DefaultCanvasSettings() CanvasSettings {
	return CanvasSettings{
		SignatureWidth:  600,
		SignatureHeight: 200,
		PainWidth:       400,
		PainHeight:      600,
		PixelRatio:      1,
		MaxThumbWidth:   1200,
		MaxStrokePoints: 20000,
	}
}

func (c CanvasSettings) signaturePad() (*capture.Pad, error) {
	opts := capture.DefaultPadOptions()
	opts.PixelRatio = c.PixelRatio
	return capture.NewPad(c.SignatureWidth, c.SignatureHeight, opts)
}

func (c CanvasSettings) painPad() (*capture.Pad, error) {
	opts := capture.PainPadOptions()
	opts.PixelRatio = c.PixelRatio
	return capture.NewPad(c.PainWidth, c.PainHeight, opts)
}

func (c CanvasSettings) checkPoints(d drawing.Drawing) error {
	if n := d.PointCount(); n > c.MaxStrokePoints {
		return fmt.Errorf("%w: %d points, limit is %d", ErrTooManyPoints, n, c.MaxStrokePoints)
	}
	return nil
}

// replay draws d onto pad one pointer event at a time, the way a browser
// would deliver it, honoring each stroke's mode.
func replay(pad *capture.Pad, d drawing.Drawing, m *metrics.Collector) {
	for _, st := range d {
		if len(st.Points) == 0 {
			continue
		}
		pad.SetMode(st.Mode())
		pad.Stroke(st.Points...)
		m.StrokesRecorded.WithLabelValues(string(st.Mode())).Inc()
	}
	pad.SetMode(drawing.ModeDraw)
}

func countStrokes(d drawing.Drawing, m *metrics.Collector) {
	for _, st := range d {
		m.StrokesRecorded.WithLabelValues(string(st.Mode())).Inc()
	}
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

func (c CanvasSettings) pixelSize(w, h int) (int, int) {
	r := c.PixelRatio
	if r < 1 {
		r = 1
	}
	return int(math.Round(float64(w) * r)), int(math.Round(float64(h) * r))
}
