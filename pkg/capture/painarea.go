package capture

import (
	"fmt"

	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/drawing"
)

// PainPenColor is the ink used to mark pain areas on the body outline.
const PainPenColor = "red"

func PainPadOptions() PadOptions {
	opts := DefaultPadOptions()
	opts.PenColor = PainPenColor
	return opts
}

// PainAreaCapture keeps pain areas as editable strokes rather than a
// flat image. The erase checkbox selects the eraser for later strokes.
type PainAreaCapture struct {
	pad   *Pad
	field Field
	err   error
}

func NewPainAreaCapture(pad *Pad, form Form, clear Button, erase Checkbox, field Field) (*PainAreaCapture, error) {
	d, err := drawing.Decode(field.Value())
	if err != nil {
		return nil, fmt.Errorf("loading pain areas: %w", err)
	}
	if len(d) > 0 {
		pad.FromData(d)
	}

	c := &PainAreaCapture{pad: pad, field: field}

	c.setErase(erase.Checked())
	erase.OnChange(c.setErase)
	clear.OnClick(pad.Clear)
	form.OnSubmit(c.submit)
	return c, nil
}

func (c *PainAreaCapture) setErase(checked bool) {
	if checked {
		c.pad.SetMode(drawing.ModeErase)
	} else {
		c.pad.SetMode(drawing.ModeDraw)
	}
}

func (c *PainAreaCapture) submit() bool {
	text, err := drawing.Encode(c.pad.ToData())
	if err != nil {
		c.err = err
		return false
	}
	c.err = nil
	c.field.SetValue(text)
	return true
}

func (c *PainAreaCapture) Pad() *Pad { return c.pad }

func (c *PainAreaCapture) Err() error { return c.err }
