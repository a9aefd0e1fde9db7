package document

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type FieldType string

const (
	FieldBool   FieldType = "bool"
	FieldString FieldType = "string"
	FieldDate   FieldType = "date"
)

type FieldSpec struct {
	Name      string    `yaml:"name" json:"name"`
	Type      FieldType `yaml:"type" json:"type"`
	MaxLength int       `yaml:"max_length,omitempty" json:"max_length,omitempty"`
}

type Definition struct {
	Kind     Kind        `yaml:"kind" json:"kind"`
	Name     string      `yaml:"name" json:"name"`
	Revision string      `yaml:"revision" json:"revision"`
	Fields   []FieldSpec `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// Catalog lists the documents a client can sign, in display order.
type Catalog struct {
	defs   []Definition
	byKind map[Kind]Definition
}

// DefaultCatalog parses the embedded document catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var doc struct {
		Documents []Definition `yaml:"documents"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing document catalog: %w", err)
	}

	c := &Catalog{byKind: make(map[Kind]Definition, len(doc.Documents))}
	for _, d := range doc.Documents {
		if d.Kind == "" || d.Revision == "" {
			return nil, fmt.Errorf("document catalog: entry %q needs kind and revision", d.Name)
		}
		if _, dup := c.byKind[d.Kind]; dup {
			return nil, fmt.Errorf("document catalog: duplicate kind %q", d.Kind)
		}
		for _, f := range d.Fields {
			switch f.Type {
			case FieldBool, FieldString, FieldDate:
			default:
				return nil, fmt.Errorf("document catalog: %s.%s has unknown type %q", d.Kind, f.Name, f.Type)
			}
		}
		c.defs = append(c.defs, d)
		c.byKind[d.Kind] = d
	}
	return c, nil
}

func (c *Catalog) All() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

func (c *Catalog) Lookup(k Kind) (Definition, error) {
	d, ok := c.byKind[k]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	return d, nil
}

func (c *Catalog) Kinds() []Kind {
	out := make([]Kind, len(c.defs))
	for i, d := range c.defs {
		out[i] = d.Kind
	}
	return out
}

// CheckFields validates submitted document fields against the definition.
func (d Definition) CheckFields(fields map[string]any) error {
	for name, v := range fields {
		spec, ok := d.field(name)
		if !ok {
			return fmt.Errorf("%w: %s has no field %q", ErrUnknownField, d.Kind, name)
		}
		if v == nil {
			continue
		}
		if err := spec.check(v); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidFieldValue, name, err)
		}
	}
	return nil
}

func (d Definition) field(name string) (FieldSpec, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

func (f FieldSpec) check(v any) error {
	switch f.Type {
	case FieldBool:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("want a boolean")
		}
	case FieldString:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("want a string")
		}
		if f.MaxLength > 0 && len(s) > f.MaxLength {
			return fmt.Errorf("longer than %d characters", f.MaxLength)
		}
	case FieldDate:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("want a date")
		}
		if _, err := time.Parse(time.DateOnly, s); err != nil {
			return fmt.Errorf("want a YYYY-MM-DD date")
		}
	}
	return nil
}
