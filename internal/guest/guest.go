package guest

import (
	"github.com/tetratelabs/wazero/api"
)

const (
	sectionType     byte = 1
	sectionImport   byte = 2
	sectionFunction byte = 3
	sectionMemory   byte = 5
	sectionExport   byte = 7
	sectionCode     byte = 10

	externFunc   byte = 0x00
	externMemory byte = 0x02

	opLocalGet byte = 0x20
	opCall     byte = 0x10
	opEnd      byte = 0x0b
)

var header = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

// MemoryExport is the export name of the memory of every built module.
const MemoryExport = "memory"

// RunExport is the export name of the forwarding function.
const RunExport = "run"

// MemoryModule returns a module exporting a memory of pages 64KiB pages.
func MemoryModule(pages uint32) []byte {
	var w writer
	w.bytes(header)
	writeMemory(&w, pages)

	var exports writer
	exports.u32(1)
	exports.name(MemoryExport)
	exports.byte(externMemory)
	exports.u32(0)
	w.section(sectionExport, &exports)

	return w.buf.Bytes()
}

// ForwardingModule returns a module that imports module.name with the given
// parameters and no results, and exports "run" with the same signature
// calling the import with its own arguments.
func ForwardingModule(module, name string, params []api.ValueType, pages uint32) []byte {
	var w writer
	w.bytes(header)

	var types writer
	types.u32(1)
	types.byte(0x60)
	types.u32(uint32(len(params)))
	for _, p := range params {
		types.byte(p)
	}
	types.u32(0)
	w.section(sectionType, &types)

	var imports writer
	imports.u32(1)
	imports.name(module)
	imports.name(name)
	imports.byte(externFunc)
	imports.u32(0)
	w.section(sectionImport, &imports)

	var funcs writer
	funcs.u32(1)
	funcs.u32(0)
	w.section(sectionFunction, &funcs)

	writeMemory(&w, pages)

	var exports writer
	exports.u32(2)
	exports.name(MemoryExport)
	exports.byte(externMemory)
	exports.u32(0)
	exports.name(RunExport)
	exports.byte(externFunc)
	exports.u32(1)
	w.section(sectionExport, &exports)

	var body writer
	body.u32(0) // no locals
	for i := range params {
		body.byte(opLocalGet)
		body.u32(uint32(i))
	}
	body.byte(opCall)
	body.u32(0)
	body.byte(opEnd)

	var code writer
	code.u32(1)
	code.u32(uint32(body.buf.Len()))
	code.bytes(body.buf.Bytes())
	w.section(sectionCode, &code)

	return w.buf.Bytes()
}

func writeMemory(w *writer, pages uint32) {
	var mem writer
	mem.u32(1)
	mem.byte(0x00)
	mem.u32(pages)
	w.section(sectionMemory, &mem)
}
