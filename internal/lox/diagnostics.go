package lox

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Diagnostics is the shared error-reporting sink described by the
// language pipeline: the scanner, parser, resolver, and interpreter all
// write through it instead of failing the process directly, so a run
// can accumulate and report more than one error before exit codes are
// decided by the caller (see cmd/lox).
type Diagnostics struct {
	Err             io.Writer
	HadError        bool
	HadRuntimeError bool
	errColor        *color.Color
}

// NewDiagnostics builds a sink writing to w, colorizing the "Error"
// prefix only when w is itself a color-capable terminal. fatih/color's
// package-level NoColor toggle is keyed off os.Stdout regardless of
// which writer Sprint targets, which would leak ANSI codes into piped
// stderr or an in-memory test buffer; checking w directly keeps piped
// and captured output byte-identical to the plain text spec.md §6
// specifies, while an interactive terminal still gets color.
func NewDiagnostics(w io.Writer) *Diagnostics {
	c := color.New(color.FgRed)
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		c.DisableColor()
	}
	return &Diagnostics{Err: w, errColor: c}
}

// ResetError clears HadError between REPL lines. HadRuntimeError is
// never cleared by this: spec.md §6 states the REPL never resets it.
func (d *Diagnostics) ResetError() {
	d.HadError = false
}

// Error reports a lexical or generic error tied to a source line.
func (d *Diagnostics) Error(line int, msg string) {
	d.report(line, "", msg)
}

// ErrorAt reports a parse or resolver error tied to a token, matching
// spec.md §6's "Error at 'X'"/"Error at end" wording.
func (d *Diagnostics) ErrorAt(tok Token, msg string) {
	if tok.Type == EOF {
		d.report(tok.Line, " at end", msg)
	} else {
		d.report(tok.Line, fmt.Sprintf(" at '%s'", tok.Lexeme), msg)
	}
}

func (d *Diagnostics) report(line int, where, msg string) {
	prefix := d.errColor.Sprint("Error" + where)
	fmt.Fprintf(d.Err, "[line %d] %s: %s\n", line, prefix, msg)
	d.HadError = true
}

// RuntimeError reports an unwound runtime error (spec.md §7 taxonomy
// item 4) and sets HadRuntimeError so the CLI can pick exit code 70.
func (d *Diagnostics) RuntimeError(err *LoxRuntimeError) {
	fmt.Fprintf(d.Err, "%s\n[line %d]\n", err.Message, err.Line)
	d.HadRuntimeError = true
}
