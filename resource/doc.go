// Package resource maps opaque native pointers to host handles.
//
// Native code passes pointers the host must be able to hand back later
// without ever looking behind them. The Table stores such pointers and
// returns small integer handles:
//
//	table := resource.NewTable()
//
//	ext := table.WrapOpaqueHandle(ptr) // value.External{Handle, Ptr}
//
//	ptr, ok := table.Pointer(resource.Handle(ext.Handle))
//
//	ptr, ok = table.Release(resource.Handle(ext.Handle))
//
// Handle 0 is never issued. Released handles are reused.
//
// # Observers
//
// Observers receive every wrap and release:
//
//	table.Subscribe(resource.LogObserver(logger))
//
// Handles outlive a single callback invocation. Call Release when the host
// is done with a pointer, or Close to drop every handle at once.
package resource
