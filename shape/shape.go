package shape

import (
	"strconv"
	"strings"
)

// Shape is a closed set: Scalar or *Composite.
type Shape interface {
	String() string
	isShape()
}

// Scalar declares a single value by its type tag.
type Scalar struct {
	Tag int32
}

func (Scalar) isShape() {}

func (s Scalar) String() string {
	if k, err := ResolveScalar(s.Tag); err == nil {
		return k.String()
	}
	if k, err := ResolveElement(s.Tag); err == nil {
		return "tag(" + k.String() + "[])"
	}
	return "tag(" + strconv.Itoa(int(s.Tag)) + ")"
}

// ArrayMeta is the array metadata of a composite description.
type ArrayMeta struct {
	Length     int
	ElementTag int32
}

// Field is one named entry of a composite.
type Field struct {
	Shape Shape
	Name  string
}

// Composite is an ordered key to shape mapping. With Array set it describes
// an array; otherwise a struct whose fields are Fields, in declaration order.
type Composite struct {
	Array  *ArrayMeta
	Fields []Field
}

func (*Composite) isShape() {}

// IsArray reports whether the composite carries array metadata.
func (c *Composite) IsArray() bool {
	return c != nil && c.Array != nil
}

// Field returns the shape of the named field.
func (c *Composite) Field(name string) (Shape, bool) {
	if c == nil {
		return nil, false
	}
	for _, f := range c.Fields {
		if f.Name == name {
			return f.Shape, true
		}
	}
	return nil, false
}

func (c *Composite) String() string {
	if c == nil {
		return "<nil composite>"
	}
	var b strings.Builder
	if c.Array != nil {
		b.WriteString("array<")
		if k, err := ResolveElement(c.Array.ElementTag); err == nil {
			b.WriteString(k.String())
		} else {
			b.WriteString("tag ")
			b.WriteString(strconv.Itoa(int(c.Array.ElementTag)))
		}
		b.WriteString("; ")
		b.WriteString(strconv.Itoa(c.Array.Length))
		b.WriteByte('>')
		return b.String()
	}
	b.WriteString("struct{")
	for i, f := range c.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		if f.Shape == nil {
			b.WriteString("<nil>")
		} else {
			b.WriteString(f.Shape.String())
		}
	}
	b.WriteByte('}')
	return b.String()
}

// Describe prints s, including nil.
func Describe(s Shape) string {
	if s == nil {
		return "<nil>"
	}
	return s.String()
}

// Array builds an array shape of length elements declared by elementTag.
func Array(elementTag int32, length int) *Composite {
	return &Composite{Array: &ArrayMeta{Length: length, ElementTag: elementTag}}
}

// Struct builds a struct shape from fields in order.
func Struct(fields ...Field) *Composite {
	return &Composite{Fields: fields}
}
