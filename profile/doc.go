// Package profile provides optional runtime profiling for the ascript
// command through [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	ascript --pprof-mode cpu script.as
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op
// [Stopper], so callers never need to check how the binary was built.
//
// Supported modes with the tag: allocs, block, clock, cpu, goroutine, heap,
// mem, mutex, thread, and trace. Profiles are written to the configured
// directory, named after the mode (cpu.pprof, mem.pprof, ...), and analyzed
// with:
//
//	go tool pprof -http=: ascript cpu.pprof
//
// Builds with the tag also import [net/http/pprof], so embedding programs
// that serve [net/http.DefaultServeMux] expose /debug/pprof/ handlers.
package profile

// Tag is the build tag that enables profiling.
const Tag = `pprof`
