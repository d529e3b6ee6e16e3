// Command lox is the CLI driver for the Lox tree-walking interpreter:
// file-mode execution and a line-at-a-time REPL (spec.md §6).
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/wizered67/crafting-interpreters/internal/lox"
)

func main() {
	switch len(os.Args) {
	case 1:
		runREPL()
	case 2:
		runFile(os.Args[1])
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s [script]\n", os.Args[0])
		os.Exit(64)
	}
}

func runFile(path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		// Not one of spec.md's named exit codes; 74 follows the same
		// sysexits.h family as 64/65/70 (EX_IOERR).
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(74)
	}

	diag := lox.NewDiagnostics(os.Stderr)
	interp := lox.NewInterpreter(os.Stdout, diag)

	lox.Run(source, diag, interp)

	switch {
	case diag.HadError:
		os.Exit(65)
	case diag.HadRuntimeError:
		os.Exit(70)
	}
}

// runREPL reads lines from stdin with prompt "> ", executing each and
// clearing the static-error flag between lines but never the
// runtime-error flag (spec.md §6/§9) — a prior runtime error never
// causes the REPL itself to exit.
func runREPL() {
	diag := lox.NewDiagnostics(os.Stderr)
	interp := lox.NewInterpreter(os.Stdout, diag)

	prompt := color.New(color.FgCyan).Sprint("> ")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(prompt)
		if !scanner.Scan() {
			return
		}
		lox.Run(scanner.Bytes(), diag, interp)
		diag.ResetError()
	}
}
