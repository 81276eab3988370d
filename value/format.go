package value

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Format renders v on a single line, e.g. `[7, -1, 1000]` or
// `{id: 12, name: "bob"}`.
func Format(v Value) string {
	var b strings.Builder
	format(&b, v)
	return b.String()
}

func format(b *strings.Builder, v Value) {
	switch v := v.(type) {
	case nil:
		b.WriteString("<nil>")
	case U8:
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	case I32:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case I64:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case U64:
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	case F64:
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 64))
	case Bool:
		b.WriteString(strconv.FormatBool(bool(v)))
	case String:
		b.WriteString(strconv.Quote(string(v)))
	case External:
		formatExternal(b, v)
	case Void:
		b.WriteString("void")
	case Bytes:
		if v.Owned {
			b.WriteString("bytes(owned)")
		} else {
			b.WriteString("bytes(view)")
		}
		b.WriteByte('[')
		b.WriteString(hex.EncodeToString(v.Data))
		b.WriteByte(']')
	case I32Array:
		formatList(b, len(v), func(i int) { b.WriteString(strconv.FormatInt(int64(v[i]), 10)) })
	case F64Array:
		formatList(b, len(v), func(i int) { b.WriteString(strconv.FormatFloat(v[i], 'g', -1, 64)) })
	case StringArray:
		formatList(b, len(v), func(i int) { b.WriteString(strconv.Quote(v[i])) })
	case ExternalArray:
		formatList(b, len(v), func(i int) { formatExternal(b, v[i]) })
	case Struct:
		b.WriteByte('{')
		for i, f := range v.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			format(b, f.Value)
		}
		b.WriteByte('}')
	default:
		fmt.Fprintf(b, "%v", v)
	}
}

func formatExternal(b *strings.Builder, e External) {
	fmt.Fprintf(b, "external(#%d @0x%x)", e.Handle, e.Ptr)
}

func formatList(b *strings.Builder, n int, item func(int)) {
	b.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		item(i)
	}
	b.WriteByte(']')
}
