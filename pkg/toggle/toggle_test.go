package toggle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func group(ids ...string) ([]Element, map[string]*Panel) {
	els := make([]Element, 0, len(ids))
	byID := make(map[string]*Panel, len(ids))
	for _, id := range ids {
		p := NewPanel(id)
		els = append(els, p)
		byID[id] = p
	}
	return els, byID
}

func TestToggleSequence(t *testing.T) {
	els, p := group("A", "B", "C")

	Toggle(els, "A")
	assert.Equal(t, DisplayInline, p["A"].Display())
	assert.Equal(t, DisplayNone, p["B"].Display())

	Toggle(els, "A")
	assert.Equal(t, DisplayNone, p["A"].Display())
	_, open := Visible(els)
	assert.False(t, open)

	Toggle(els, "A")
	Toggle(els, "B")
	assert.Equal(t, DisplayNone, p["A"].Display())
	assert.Equal(t, DisplayInline, p["B"].Display())
	assert.Equal(t, DisplayNone, p["C"].Display())
}

func TestToggleUnknownTargetIsNoop(t *testing.T) {
	els, p := group("A", "B")
	Toggle(els, "A")
	Toggle(els, "missing")

	id, open := Visible(els)
	assert.True(t, open)
	assert.Equal(t, "A", id)
	assert.Equal(t, DisplayNone, p["B"].Display())
}

func TestBind(t *testing.T) {
	els, p := group("consent", "release")
	a := NewTrigger(map[string]string{"target": "consent"})
	b := NewTrigger(map[string]string{"target": "release"})
	Bind(els, []Trigger{a, b}, "")

	a.Click()
	assert.Equal(t, DisplayInline, p["consent"].Display())
	b.Click()
	assert.Equal(t, DisplayNone, p["consent"].Display())
	assert.Equal(t, DisplayInline, p["release"].Display())
	b.Click()
	_, open := Visible(els)
	assert.False(t, open)
}

func TestBindCustomAttr(t *testing.T) {
	els, p := group("help")
	tr := NewTrigger(map[string]string{"panel": "help"})
	Bind(els, []Trigger{tr}, "panel")

	tr.Click()
	assert.Equal(t, DisplayInline, p["help"].Display())
}
