package drawing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Encode serializes d as a JSON array of stroke objects. An empty
// drawing encodes as "[]".
func Encode(d Drawing) (string, error) {
	out := make(Drawing, len(d))
	copy(out, d)
	for i := range out {
		if out[i].Points == nil {
			out[i].Points = []Point{}
		}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encoding strokes: %w", err)
	}
	return string(b), nil
}

// legacyPoint is the per-point layout of pads that stored a bare array
// of point arrays, with the pen color repeated on every point.
type legacyPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Time  int64   `json:"time"`
	Color string  `json:"color"`
}

// Decode parses serialized pain areas. Blank input is an empty drawing.
func Decode(s string) (Drawing, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Drawing{}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	d := make(Drawing, 0, len(raw))
	for i, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) == 0 {
			return nil, fmt.Errorf("%w: stroke %d is empty", ErrMalformed, i)
		}

		var st Stroke
		switch item[0] {
		case '{':
			if err := json.Unmarshal(item, &st); err != nil {
				return nil, fmt.Errorf("%w: stroke %d: %v", ErrMalformed, i, err)
			}
			if st.Points == nil {
				st.Points = []Point{}
			}
		case '[':
			var pts []legacyPoint
			if err := json.Unmarshal(item, &pts); err != nil {
				return nil, fmt.Errorf("%w: stroke %d: %v", ErrMalformed, i, err)
			}
			st = fromLegacy(pts)
		default:
			return nil, fmt.Errorf("%w: stroke %d is neither an object nor an array", ErrMalformed, i)
		}

		if err := validateStroke(&st); err != nil {
			return nil, fmt.Errorf("%w: stroke %d: %v", ErrMalformed, i, err)
		}
		d = append(d, st)
	}

	return d, nil
}

func fromLegacy(pts []legacyPoint) Stroke {
	st := Stroke{
		PenColor:             DefaultPenColor,
		MinWidth:             DefaultMinWidth,
		MaxWidth:             DefaultMaxWidth,
		VelocityFilterWeight: DefaultVelocityFilterWeight,
		CompositeOperation:   CompositeSourceOver,
		Points:               make([]Point, 0, len(pts)),
	}
	if len(pts) > 0 && pts[0].Color != "" {
		st.PenColor = pts[0].Color
	}
	for _, p := range pts {
		st.Points = append(st.Points, Point{X: p.X, Y: p.Y, Time: p.Time})
	}
	return st
}

func validateStroke(st *Stroke) error {
	switch st.CompositeOperation {
	case "":
		st.CompositeOperation = CompositeSourceOver
	case CompositeSourceOver, CompositeDestinationOut:
	default:
		return fmt.Errorf("unsupported composite operation %q", st.CompositeOperation)
	}

	if st.MinWidth < 0 || st.MaxWidth < 0 || st.DotSize < 0 {
		return fmt.Errorf("negative width")
	}

	for j, p := range st.Points {
		if !finite(p.X) || !finite(p.Y) || !finite(p.Pressure) {
			return fmt.Errorf("point %d is not finite", j)
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
