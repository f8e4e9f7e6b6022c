package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// palette holds the ANSI sequences used by Format. The zero value prints
// plain text.
type palette struct {
	reset, err, accent, dim, strong string
}

var ansi = palette{
	reset:  "\033[0m",
	err:    "\033[1;31m",
	accent: "\033[36m",
	dim:    "\033[90m",
	strong: "\033[1m",
}

// colors is the active palette. NO_COLOR disables it at startup.
var colors = func() palette {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return palette{}
	}
	return ansi
}()

// SetColor turns ANSI colors in Format and PrintError on or off.
func SetColor(enabled bool) {
	if enabled {
		colors = ansi
		return
	}
	colors = palette{}
}

func (p palette) paint(seq, text string) string {
	if seq == "" {
		return text
	}
	return seq + text + p.reset
}

// Format renders the error for a terminal: a header, the offending source
// lines when a location is known, then the cause, detail, hint and example.
func (e *StocknavError) Format() string {
	var b strings.Builder
	p := colors

	header := "ERROR:"
	if e.Code != "" {
		header = "ERROR " + e.Code + ":"
	}
	fmt.Fprintf(&b, "\n%s %s\n\n", p.paint(p.err, header), p.paint(p.strong, e.Message))

	switch {
	case e.Location != nil:
		fmt.Fprintf(&b, "  %s\n\n", p.paint(p.accent, e.Location.String()))
		e.writeSource(&b, p)
	case len(e.Context) > 0:
		for _, line := range e.Context {
			fmt.Fprintf(&b, "    %s\n", p.paint(p.accent, line))
		}
		b.WriteString("\n")
	}

	if e.Wrapped != nil && e.Location == nil {
		fmt.Fprintf(&b, "  %s%s\n\n", p.paint(p.dim, "Cause: "), e.Wrapped.Error())
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, "  %s\n\n", e.Detail)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s%s\n\n", p.paint(p.accent, "Hint: "), e.Suggestion)
	}
	if e.Example != "" {
		fmt.Fprintf(&b, "  %s\n", p.paint(p.accent, "Example:"))
		for _, line := range strings.Split(e.Example, "\n") {
			fmt.Fprintf(&b, "    %s\n", line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// writeSource prints Context as numbered lines centred on Location, with
// an arrow on the offending line and a caret under its column.
func (e *StocknavError) writeSource(b *strings.Builder, p palette) {
	if len(e.Context) == 0 {
		return
	}
	bar := p.paint(p.dim, " │ ")
	first := e.Location.Line - len(e.Context)/2
	for i, line := range e.Context {
		n := first + i
		if n != e.Location.Line {
			fmt.Fprintf(b, "    %4d%s%s\n", n, bar, line)
			continue
		}
		fmt.Fprintf(b, "  %s%4d%s%s\n", p.paint(p.err, "→ "), n, bar, line)
		if e.Location.Column > 0 {
			fmt.Fprintf(b, "       %s%s%s\n", p.paint(p.dim, "│ "),
				strings.Repeat(" ", e.Location.Column-1), p.paint(p.err, "^"))
		}
	}
	b.WriteString("\n")
}

// PrintError prints err to w, using Format for coded errors anywhere in
// the chain.
func PrintError(w io.Writer, err error) {
	var se *StocknavError
	if stderrors.As(err, &se) {
		fmt.Fprint(w, se.Format())
		return
	}
	p := colors
	fmt.Fprintf(w, "\n%s %s\n\n", p.paint(p.err, "ERROR:"), err.Error())
}
