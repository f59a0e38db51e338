// Package cli contains the command line interface for ascript.
//
// # Usage
//
//	ascript [flags] [FILE...]          evaluate scripts (the default command)
//	ascript eval -e 'EXPR' [FILE...]   evaluate inline expressions, then files
//	ascript fmt {native|json|yaml|ast} [FILE]
//	ascript repl [FILE...]             interactive session
//	ascript init [--force]             write the configuration file
//
// With no arguments, ascript starts the interactive session when standard
// input is a terminal and evaluates standard input otherwise.
//
// # Configuration
//
// Flag defaults are read from config.json (kong's JSON loader) and
// config.yaml in the user configuration directory, e.g.
// ~/.config/ascript/config.yaml. Command-line flags override both. The
// YAML file accepts flat or nested keys:
//
//	log-level: debug
//	log:
//	  format: json
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, ms, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o ascript .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/ascript/pprof)
package cli
