// Package guest assembles tiny WebAssembly modules used as callback callers.
//
// MemoryModule exports one memory and nothing else; fixtures write argument
// data into it and decode against it. ForwardingModule additionally imports
// a host function and exports "run", which forwards its parameters to that
// import unchanged, so tests can drive a host callback from guest code.
package guest
