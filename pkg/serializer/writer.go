package serializer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Writer streams rendered reports to one io.Writer.
type Writer struct {
	out    io.Writer
	closer io.Closer
}

// NewWriter wraps an io.Writer as a report destination. A nil out
// means stdout.
func NewWriter(out io.Writer) *Writer {
	if out == nil {
		out = os.Stdout
	}
	return &Writer{out: out}
}

// NewStdoutWriter emits reports on stdout, the channel the monitoring
// server's agent runner consumes.
func NewStdoutWriter() *Writer {
	return &Writer{out: os.Stdout}
}

// NewFileWriterOrStdout picks the destination for an output value:
// empty means stdout, cm://namespace/name means a ConfigMap, anything
// else is a file path truncated on open. A destination that cannot be
// set up degrades to stdout so the cycle's report is not lost. Callers
// must Close the result; file handles stay open until then.
func NewFileWriterOrStdout(path string) Serializer {
	target := strings.TrimSpace(path)
	switch {
	case target == "":
		return NewStdoutWriter()

	case strings.HasPrefix(target, ConfigMapURIScheme):
		namespace, name, err := parseConfigMapURI(target)
		if err != nil {
			slog.Error("invalid configmap target, writing to stdout", "error", err, "uri", target)
			return NewStdoutWriter()
		}
		return NewConfigMapWriter(namespace, name)

	default:
		file, err := os.Create(target)
		if err != nil {
			slog.Error("cannot open output file, writing to stdout", "error", err, "path", target)
			return NewStdoutWriter()
		}
		return &Writer{out: file, closer: file}
	}
}

// Close releases the underlying file handle, if any. Calling it on a
// stdout writer, or twice, is harmless.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

// Serialize renders the report and writes the text in one piece. The
// context goes unused; local writes are fast and blocking.
func (w *Writer) Serialize(_ context.Context, report Renderer) error {
	text, err := report.Render()
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if _, err := io.WriteString(w.out, text); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
