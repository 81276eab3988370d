package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/ffi-bridge/decoder"
	"github.com/wippyai/ffi-bridge/internal/guest"
	"github.com/wippyai/ffi-bridge/memory"
	"github.com/wippyai/ffi-bridge/shape"
	"github.com/wippyai/ffi-bridge/value"
)

const pageSize = 65536

// fixture describes a memory image and the callback parameters to decode
// against it.
type fixture struct {
	Memory []segment    `json:"memory"`
	Params []paramEntry `json:"params"`
}

// segment is a block of memory at addr. Exactly one of Hex and Text is set.
// Text is written with a trailing NUL.
type segment struct {
	Hex  *string `json:"hex,omitempty"`
	Text *string `json:"text,omitempty"`
	Addr uint32  `json:"addr"`
}

type paramEntry struct {
	Name  string          `json:"name"`
	Shape json.RawMessage `json:"shape"`
	Raw   uint64          `json:"raw"`
}

type param struct {
	shape shape.Shape
	name  string
	raw   uint64
}

type decoded struct {
	value value.Value
	err   error
	param param
}

func (s segment) bytes() ([]byte, error) {
	switch {
	case s.Hex != nil && s.Text != nil:
		return nil, fmt.Errorf("segment at %#x has both hex and text", s.Addr)
	case s.Hex != nil:
		b, err := hex.DecodeString(strings.ReplaceAll(*s.Hex, " ", ""))
		if err != nil {
			return nil, fmt.Errorf("segment at %#x: %w", s.Addr, err)
		}
		return b, nil
	case s.Text != nil:
		return append([]byte(*s.Text), 0), nil
	default:
		return nil, fmt.Errorf("segment at %#x has no data", s.Addr)
	}
}

func loadFixture(path string) (*fixture, []param, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read fixture: %w", err)
	}
	return parseFixture(data)
}

func parseFixture(data []byte) (*fixture, []param, error) {
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, nil, fmt.Errorf("parse fixture: %w", err)
	}

	params := make([]param, len(fx.Params))
	for i, p := range fx.Params {
		s, err := shape.ParseJSON(p.Shape)
		if err != nil {
			return nil, nil, fmt.Errorf("param %d: %w", i, err)
		}
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("arg%d", i)
		}
		params[i] = param{name: name, shape: s, raw: p.Raw}
	}
	return &fx, params, nil
}

// pages returns the number of 64KiB pages needed to hold every segment.
func (fx *fixture) pages() (uint32, error) {
	var end uint64
	for _, s := range fx.Memory {
		b, err := s.bytes()
		if err != nil {
			return 0, err
		}
		if e := uint64(s.Addr) + uint64(len(b)); e > end {
			end = e
		}
	}
	n := (end + pageSize - 1) / pageSize
	if n == 0 {
		n = 1
	}
	if n > 65536 {
		return 0, fmt.Errorf("fixture needs %d pages", n)
	}
	return uint32(n), nil
}

// session owns the wazero runtime backing a fixture's memory.
type session struct {
	rt  wazero.Runtime
	mem *memory.Linear
}

func newSession(ctx context.Context, fx *fixture) (*session, error) {
	pages, err := fx.pages()
	if err != nil {
		return nil, err
	}

	rt := wazero.NewRuntime(ctx)
	mod, err := rt.Instantiate(ctx, guest.MemoryModule(pages))
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("instantiate memory: %w", err)
	}

	mem := memory.WrapLinear(mod.ExportedMemory(guest.MemoryExport))
	if mem == nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("memory export missing")
	}
	for _, s := range fx.Memory {
		b, _ := s.bytes()
		if err := mem.Write(uint64(s.Addr), b); err != nil {
			rt.Close(ctx)
			return nil, fmt.Errorf("write segment at %#x: %w", s.Addr, err)
		}
	}
	return &session{rt: rt, mem: mem}, nil
}

func (s *session) Close(ctx context.Context) error {
	return s.rt.Close(ctx)
}

// decodeAll decodes every parameter. A failing parameter does not stop the
// others; its error is kept with it.
func decodeAll(d *decoder.Decoder, params []param, threadSafe bool) []decoded {
	out := make([]decoded, len(params))
	for i, p := range params {
		v, err := d.Decode(p.shape, p.raw, threadSafe)
		if err != nil {
			err = decoder.WithPath(err, p.name)
		}
		out[i] = decoded{param: p, value: v, err: err}
	}
	return out
}
