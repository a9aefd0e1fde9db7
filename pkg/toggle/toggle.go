// Package toggle implements mutually exclusive show/hide panels, where
// opening one panel closes the rest of its group.
package toggle

type Display string

const (
	DisplayInline Display = "inline"
	DisplayNone   Display = "none"
)

// DefaultAttr is the data attribute a trigger names its panel with.
const DefaultAttr = "target"

type Element interface {
	ID() string
	Display() Display
	SetDisplay(Display)
}

type Trigger interface {
	Data(key string) string
	OnClick(func())
}

// Toggle hides target when it is showing. Otherwise it shows target and
// hides every other element. An unknown target changes nothing.
func Toggle(elements []Element, target string) {
	var el Element
	for _, e := range elements {
		if e.ID() == target {
			el = e
			break
		}
	}
	if el == nil {
		return
	}

	if el.Display() == DisplayInline {
		el.SetDisplay(DisplayNone)
		return
	}

	for _, e := range elements {
		if e != el {
			e.SetDisplay(DisplayNone)
		}
	}
	el.SetDisplay(DisplayInline)
}

// Bind makes every trigger toggle the element named by its attr data
// attribute. An empty attr means DefaultAttr.
func Bind(elements []Element, triggers []Trigger, attr string) {
	if attr == "" {
		attr = DefaultAttr
	}
	for _, tr := range triggers {
		target := tr.Data(attr)
		tr.OnClick(func() { Toggle(elements, target) })
	}
}

// Visible reports the id of the first showing element.
func Visible(elements []Element) (string, bool) {
	for _, e := range elements {
		if e.Display() == DisplayInline {
			return e.ID(), true
		}
	}
	return "", false
}

type Panel struct {
	id      string
	display Display
}

// NewPanel returns a hidden panel.
func NewPanel(id string) *Panel {
	return &Panel{id: id, display: DisplayNone}
}

func (p *Panel) ID() string           { return p.id }
func (p *Panel) Display() Display     { return p.display }
func (p *Panel) SetDisplay(d Display) { p.display = d }

type TriggerElement struct {
	data     map[string]string
	handlers []func()
}

func NewTrigger(data map[string]string) *TriggerElement {
	return &TriggerElement{data: data}
}

func (t *TriggerElement) Data(key string) string { return t.data[key] }

func (t *TriggerElement) OnClick(fn func()) {
	t.handlers = append(t.handlers, fn)
}

func (t *TriggerElement) Click() {
	for _, fn := range t.handlers {
		fn()
	}
}
