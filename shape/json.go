package shape

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/wippyai/ffi-bridge/errors"
)

// ParseJSON builds a shape from a JSON description. Numbers are scalar tags.
// Objects are composites whose key order is preserved; an object with a
// "length" key is an array and must also carry a "type" element tag.
func ParseJSON(data []byte) (Shape, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	s, err := parseNode(dec)
	if err != nil {
		return nil, errors.ParseFailed("shape JSON", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.ParseFailed("shape JSON", fmt.Errorf("trailing data after shape"))
	}
	return s, nil
}

// UnmarshalShapes decodes a JSON array of shape descriptions.
func UnmarshalShapes(data []byte) ([]Shape, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.ParseFailed("shape list", err)
	}
	out := make([]Shape, 0, len(raw))
	for _, r := range raw {
		s, err := ParseJSON(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func parseNode(dec *json.Decoder) (Shape, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Number:
		tag, err := tagFromNumber(v)
		if err != nil {
			return nil, err
		}
		return Scalar{Tag: tag}, nil
	case json.Delim:
		if v == '{' {
			return parseObject(dec)
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func parseObject(dec *json.Decoder) (*Composite, error) {
	c := &Composite{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", keyTok)
		}
		child, err := parseNode(dec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		c.Fields = append(c.Fields, Field{Name: key, Shape: child})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return liftArrayMeta(c)
}

// liftArrayMeta moves the reserved array keys of c into Array.
func liftArrayMeta(c *Composite) (*Composite, error) {
	lengthShape, ok := c.Field(ArrayLengthKey)
	if !ok {
		return c, nil
	}
	length, ok := lengthShape.(Scalar)
	if !ok {
		return nil, fmt.Errorf("%q must be an integer", ArrayLengthKey)
	}
	typeShape, ok := c.Field(ArrayTypeKey)
	if !ok {
		return nil, fmt.Errorf("array description without %q", ArrayTypeKey)
	}
	elem, ok := typeShape.(Scalar)
	if !ok {
		return nil, fmt.Errorf("%q must be an integer", ArrayTypeKey)
	}

	rest := c.Fields[:0:0]
	for _, f := range c.Fields {
		if f.Name != ArrayLengthKey && f.Name != ArrayTypeKey {
			rest = append(rest, f)
		}
	}
	return &Composite{
		Array:  &ArrayMeta{Length: int(length.Tag), ElementTag: elem.Tag},
		Fields: rest,
	}, nil
}

func tagFromNumber(n json.Number) (int32, error) {
	v, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("tag %s is not an integer", n)
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("tag %d out of range", v)
	}
	return int32(v), nil
}

// MarshalJSON renders s back into its JSON description.
func MarshalJSON(s Shape) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, s Shape) error {
	switch s := s.(type) {
	case Scalar:
		fmt.Fprintf(buf, "%d", s.Tag)
		return nil
	case *Composite:
		if s == nil {
			break
		}
		buf.WriteByte('{')
		n := 0
		if s.Array != nil {
			fmt.Fprintf(buf, "%q:%d,%q:%d", ArrayLengthKey, s.Array.Length, ArrayTypeKey, s.Array.ElementTag)
			n = 2
		}
		for _, f := range s.Fields {
			if n > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(f.Name)
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, f.Shape); err != nil {
				return err
			}
			n++
		}
		buf.WriteByte('}')
		return nil
	}
	return errors.InvalidInput(errors.PhaseParse, fmt.Sprintf("cannot render shape %s", Describe(s)))
}
