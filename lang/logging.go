package lang

import (
	"log/slog"

	"github.com/ardnew/ascript/lang/diag"
)

// diagAttr renders err as a structured attribute through [diag.Error]'s
// LogValue.
func diagAttr(err error) slog.Attr {
	return slog.Any("error", diag.Wrap(err))
}
