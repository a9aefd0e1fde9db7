package capture

import (
	"errors"
	"fmt"
)

const EmptySignatureMessage = "Please sign the document before clicking Accept."

var ErrEmptySignature = errors.New("signature is required")

// SignatureCapture turns a pad into a one-time raster signature. On
// submit it writes a PNG data URL into its field, or cancels the
// submission when nothing was drawn.
type SignatureCapture struct {
	pad     *Pad
	field   Field
	alerter Alerter
	err     error
}

// NewSignatureCapture binds pad to form. An existing value in field is
// decoded and shown before any input is accepted.
func NewSignatureCapture(pad *Pad, form Form, clear Button, field Field, alerter Alerter) (*SignatureCapture, error) {
	if alerter == nil {
		alerter = AlertFunc(func(string) {})
	}

	if v := field.Value(); v != "" {
		if err := pad.FromDataURL(v); err != nil {
			return nil, fmt.Errorf("loading existing signature: %w", err)
		}
	}

	c := &SignatureCapture{pad: pad, field: field, alerter: alerter}
	form.OnSubmit(c.submit)
	clear.OnClick(pad.Clear)
	return c, nil
}

func (c *SignatureCapture) submit() bool {
	c.err = nil
	if c.pad.IsEmpty() {
		c.err = ErrEmptySignature
		c.alerter.Alert(EmptySignatureMessage)
		return false
	}

	url, err := c.pad.ToDataURL()
	if err != nil {
		c.err = fmt.Errorf("encoding signature: %w", err)
		c.alerter.Alert("The signature could not be saved. Please try again.")
		return false
	}

	c.field.SetValue(url)
	return true
}

func (c *SignatureCapture) Pad() *Pad { return c.pad }

// Err is the reason the last submission was cancelled, if any.
func (c *SignatureCapture) Err() error { return c.err }
