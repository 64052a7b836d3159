// Package output provides context-aware output for dotgit.
// Stdout is used for primary data output (paths, JSON).
// Stderr (via log package) is used for diagnostics.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"

	"github.com/raphi011/dotgit/internal/config"
)

type ctxKey struct{}

// Printer writes primary output (paths, JSON) to stdout.
type Printer struct {
	w    io.Writer
	base io.Writer // w before color adaptation
	mode string    // color mode, empty for a plain printer
	tty  bool
}

// New creates a new Printer writing to the given writer.
func New(w io.Writer) *Printer {
	return &Printer{w: w, base: w, tty: isTerminal(w)}
}

// NewColor creates a Printer that adapts ANSI styling to mode: "never"
// strips it, "always" passes it through, anything else detects the
// terminal's color profile from w and the environment.
func NewColor(w io.Writer, mode string) *Printer {
	cw := colorprofile.NewWriter(w, os.Environ())
	switch mode {
	case config.ColorNever:
		cw.Profile = colorprofile.NoTTY
	case config.ColorAlways:
		cw.Profile = colorprofile.TrueColor
	}
	return &Printer{w: cw, base: w, mode: mode, tty: isTerminal(w) || mode == config.ColorAlways}
}

// WithColor returns a Printer on the same output using mode. Plain
// printers and printers already in mode are returned as is.
func (p *Printer) WithColor(mode string) *Printer {
	if p.mode == "" || p.mode == mode {
		return p
	}
	return NewColor(p.base, mode)
}

// WithPrinter attaches a Printer to the context.
func WithPrinter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, ctxKey{}, New(w))
}

// WithColorPrinter attaches a color-aware Printer to the context.
func WithColorPrinter(ctx context.Context, w io.Writer, mode string) context.Context {
	return context.WithValue(ctx, ctxKey{}, NewColor(w, mode))
}

// FromContext retrieves the Printer from context.
// Returns a Printer writing to os.Stdout if none is attached.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return &Printer{w: os.Stdout, base: os.Stdout}
}

// Print writes output without a newline.
func (p *Printer) Print(a ...any) {
	fmt.Fprint(p.w, a...)
}

// Printf writes formatted output.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

// Println writes a line of output.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// JSON writes v as indented JSON followed by a newline.
func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// IsTerminal reports whether output is meant for a human rather than a pipe
// or command substitution.
func (p *Printer) IsTerminal() bool {
	return p.tty
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
