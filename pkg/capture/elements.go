package capture

// Form is the enclosing form of a widget. A submit handler returning
// false cancels the submission.
type Form interface {
	OnSubmit(func() bool)
}

type Button interface {
	OnClick(func())
}

type Checkbox interface {
	Checked() bool
	OnChange(func(checked bool))
}

// Field is the hidden input a widget serializes into.
type Field interface {
	Value() string
	SetValue(string)
}

// Alerter surfaces a blocking message to the user.
type Alerter interface {
	Alert(msg string)
}

type FormElement struct {
	handlers []func() bool
}

func NewForm() *FormElement { return &FormElement{} }

func (f *FormElement) OnSubmit(fn func() bool) {
	f.handlers = append(f.handlers, fn)
}

// Submit runs the submit handlers in registration order and reports
// whether the submission may proceed. The first handler to cancel stops
// the rest.
func (f *FormElement) Submit() bool {
	for _, fn := range f.handlers {
		if !fn() {
			return false
		}
	}
	return true
}

type ButtonElement struct {
	handlers []func()
}

func NewButton() *ButtonElement { return &ButtonElement{} }

func (b *ButtonElement) OnClick(fn func()) {
	b.handlers = append(b.handlers, fn)
}

func (b *ButtonElement) Click() {
	for _, fn := range b.handlers {
		fn()
	}
}

type CheckboxElement struct {
	checked  bool
	handlers []func(bool)
}

func NewCheckbox(checked bool) *CheckboxElement {
	return &CheckboxElement{checked: checked}
}

func (c *CheckboxElement) Checked() bool { return c.checked }

func (c *CheckboxElement) OnChange(fn func(bool)) {
	c.handlers = append(c.handlers, fn)
}

// SetChecked fires change handlers only when the state actually flips.
func (c *CheckboxElement) SetChecked(v bool) {
	if c.checked == v {
		return
	}
	c.checked = v
	for _, fn := range c.handlers {
		fn(v)
	}
}

type HiddenField struct {
	value  string
	writes int
}

func NewHiddenField(value string) *HiddenField {
	return &HiddenField{value: value}
}

func (h *HiddenField) Value() string { return h.value }

func (h *HiddenField) SetValue(v string) {
	h.value = v
	h.writes++
}

// Writes counts SetValue calls.
func (h *HiddenField) Writes() int { return h.writes }

// AlertFunc adapts a function to Alerter.
type AlertFunc func(msg string)

func (f AlertFunc) Alert(msg string) { f(msg) }

// AlertRecorder keeps every message it was asked to show.
type AlertRecorder struct {
	Messages []string
}

func (r *AlertRecorder) Alert(msg string) {
	r.Messages = append(r.Messages, msg)
}

func (r *AlertRecorder) Last() string {
	if len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[len(r.Messages)-1]
}
