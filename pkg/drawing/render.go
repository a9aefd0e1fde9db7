package drawing

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// capSegments is the number of edges used to approximate round joins
// and caps.
const capSegments = 16

// Render replays d onto dst in drawing order.
func Render(dst *image.NRGBA, d Drawing) {
	RenderScaled(dst, d, 1)
}

// RenderScaled replays d onto dst with every coordinate and width
// multiplied by scale, the way a high-DPI surface draws.
func RenderScaled(dst *image.NRGBA, d Drawing, scale float64) {
	if scale <= 0 {
		scale = 1
	}
	b := dst.Bounds()
	if b.Empty() {
		return
	}

	z := vector.NewRasterizer(b.Dx(), b.Dy())
	var mask *image.Alpha

	for _, st := range d {
		if len(st.Points) == 0 {
			continue
		}

		z.Reset(b.Dx(), b.Dy())
		tracePolyline(z, st, scale, float64(b.Min.X), float64(b.Min.Y))

		switch st.Mode() {
		case ModeErase:
			if mask == nil {
				mask = image.NewAlpha(image.Rect(0, 0, b.Dx(), b.Dy()))
			} else {
				clear(mask.Pix)
			}
			z.DrawOp = draw.Src
			z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
			eraseUnder(dst, mask)
		default:
			z.DrawOp = draw.Over
			z.Draw(dst, b, image.NewUniform(ParseColor(st.PenColor)), image.Point{})
		}
	}
}

// tracePolyline adds the outline of a stroke to z: a disc on every point
// and a trapezoid between consecutive points. All sub-paths share the
// same winding so overlapping coverage saturates instead of cancelling.
func tracePolyline(z *vector.Rasterizer, st Stroke, scale, ox, oy float64) {
	if st.MinWidth <= 0 && st.MaxWidth <= 0 {
		st.MinWidth, st.MaxWidth = DefaultMinWidth, DefaultMaxWidth
	}

	at := func(p Point) (float64, float64) {
		return p.X*scale - ox, p.Y*scale - oy
	}

	if len(st.Points) == 1 {
		x, y := at(st.Points[0])
		disc(z, x, y, st.dotWidth()*scale/2)
		return
	}

	for i, p := range st.Points {
		x, y := at(p)
		r := st.widthAt(p) * scale / 2
		disc(z, x, y, r)

		if i == 0 {
			continue
		}
		prev := st.Points[i-1]
		px, py := at(prev)
		segment(z, px, py, st.widthAt(prev)*scale/2, x, y, r)
	}
}

func disc(z *vector.Rasterizer, cx, cy, r float64) {
	if r <= 0 {
		return
	}
	for k := 0; k < capSegments; k++ {
		theta := -2 * math.Pi * float64(k) / capSegments
		x := float32(cx + r*math.Cos(theta))
		y := float32(cy + r*math.Sin(theta))
		if k == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

func segment(z *vector.Rasterizer, ax, ay, ra, bx, by, rb float64) {
	dx, dy := bx-ax, by-ay
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length, dx/length

	z.MoveTo(float32(ax+nx*ra), float32(ay+ny*ra))
	z.LineTo(float32(bx+nx*rb), float32(by+ny*rb))
	z.LineTo(float32(bx-nx*rb), float32(by-ny*rb))
	z.LineTo(float32(ax-nx*ra), float32(ay-ny*ra))
	z.ClosePath()
}

// eraseUnder applies destination-out: dst alpha is scaled by 1-mask.
func eraseUnder(dst *image.NRGBA, mask *image.Alpha) {
	b := dst.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := dst.Pix[y*dst.Stride:]
		mrow := mask.Pix[y*mask.Stride:]
		for x := 0; x < b.Dx(); x++ {
			m := uint32(mrow[x])
			if m == 0 {
				continue
			}
			i := x * 4
			a := uint32(row[i+3]) * (255 - m) / 255
			row[i+3] = uint8(a)
			if a == 0 {
				row[i], row[i+1], row[i+2] = 0, 0, 0
			}
		}
	}
}

// HasInk reports whether any pixel of img is not fully transparent.
func HasInk(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return true
		}
	}
	return false
}
