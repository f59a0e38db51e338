package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/ascript/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Info("script loaded", slog.String("file", "main.as"))
	logger.Debug("not shown")

	// Output:
	// level=INFO msg="script loaded" file=main.as
}

func Example_trace() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelTrace),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.With(slog.String("component", "parser")).Trace("cache lookup", slog.Bool("hit", true))

	// Output:
	// {"level":"TRACE","msg":"cache lookup","component":"parser","hit":true}
}
