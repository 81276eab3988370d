package value

type Kind uint8

const (
	KindU8 Kind = iota
	KindI32
	KindI64
	KindU64
	KindF64
	KindBool
	KindString
	KindExternal
	KindVoid
	KindBytes
	KindI32Array
	KindF64Array
	KindStringArray
	KindExternalArray
	KindStruct
)

var kindNames = [...]string{
	KindU8:            "u8",
	KindI32:           "i32",
	KindI64:           "i64",
	KindU64:           "u64",
	KindF64:           "f64",
	KindBool:          "bool",
	KindString:        "string",
	KindExternal:      "external",
	KindVoid:          "void",
	KindBytes:         "bytes",
	KindI32Array:      "i32[]",
	KindF64Array:      "f64[]",
	KindStringArray:   "string[]",
	KindExternalArray: "external[]",
	KindStruct:        "struct",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsArray reports whether values of kind k carry a sequence of elements.
func (k Kind) IsArray() bool {
	return k >= KindBytes && k <= KindExternalArray
}
