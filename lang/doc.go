// Package lang embeds the ascript language in a Go program.
//
// An [Interp] holds the operator table, the registry of host classes and
// the immutable globals that every script sees. Scripts are parsed once and
// cached, then evaluated by walking the tree:
//
//	in := lang.New()
//	_ = in.Define("hypot", math.Hypot)
//
//	v, err := in.Eval(ctx, `h = (a, b) => hypot(a, b); h(3, 4)`)
//
// Values are plain Go values (see package value). Script functions are
// [*Closure] values; Go functions, methods and fields are exposed through
// package host, whose resolver picks the best overload for each call.
//
// Each evaluation owns its root scope and call stack, so one Interp can run
// scripts on many goroutines at once. Long-running scripts stop at the next
// statement or loop iteration after their context is canceled.
package lang
