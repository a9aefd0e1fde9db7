package drawing

import (
	"errors"
	"fmt"
)

type Mode string

const (
	ModeDraw  Mode = "draw"
	ModeErase Mode = "erase"
)

// Composite operations understood by the renderer. They mirror the
// canvas globalCompositeOperation values recorded by the browser pad.
const (
	CompositeSourceOver     = "source-over"
	CompositeDestinationOut = "destination-out"
)

// Default pen settings of the drawing surface.
const (
	DefaultPenColor             = "black"
	DefaultMinWidth             = 0.5
	DefaultMaxWidth             = 2.5
	DefaultVelocityFilterWeight = 0.7

	// EraseWidth is used for both the minimum and maximum width while
	// erasing.
	EraseWidth = 20.0
)

var (
	ErrMalformed      = errors.New("malformed stroke data")
	ErrInvalidDataURL = errors.New("invalid image data URL")
	// ErrImageTooLarge also matches ErrInvalidDataURL.
	ErrImageTooLarge = fmt.Errorf("%w: image too large", ErrInvalidDataURL)
)

type Point struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"pressure,omitempty"`
	Time     int64   `json:"time"`
}

// Stroke is one pointer-down to pointer-up gesture.
type Stroke struct {
	PenColor             string  `json:"penColor"`
	DotSize              float64 `json:"dotSize"`
	MinWidth             float64 `json:"minWidth"`
	MaxWidth             float64 `json:"maxWidth"`
	VelocityFilterWeight float64 `json:"velocityFilterWeight"`
	CompositeOperation   string  `json:"compositeOperation"`
	Points               []Point `json:"points"`
}

func (s Stroke) Mode() Mode {
	if s.CompositeOperation == CompositeDestinationOut {
		return ModeErase
	}
	return ModeDraw
}

// widthAt returns the ink width under p. Unknown pressure counts as half.
func (s Stroke) widthAt(p Point) float64 {
	pressure := p.Pressure
	if pressure <= 0 {
		pressure = 0.5
	}
	if pressure > 1 {
		pressure = 1
	}
	return s.MinWidth + (s.MaxWidth-s.MinWidth)*pressure
}

func (s Stroke) dotWidth() float64 {
	if s.DotSize > 0 {
		return s.DotSize
	}
	return (s.MinWidth + s.MaxWidth) / 2
}

// Drawing is the full content of a surface, in the order it was drawn.
type Drawing []Stroke

func (d Drawing) PointCount() int {
	n := 0
	for _, s := range d {
		n += len(s.Points)
	}
	return n
}

// Clone returns a deep copy so callers can keep mutating their own points.
func (d Drawing) Clone() Drawing {
	if d == nil {
		return nil
	}
	out := make(Drawing, len(d))
	for i, s := range d {
		out[i] = s
		out[i].Points = append([]Point(nil), s.Points...)
	}
	return out
}
