package lox

import "bytes"

// runProgram executes source through the full scan -> parse -> resolve
// -> interpret pipeline and returns captured stdout/stderr plus the
// diagnostics flags, for asserting against spec.md §8 scenarios.
func runProgram(source string) (stdout, stderr string, diag *Diagnostics) {
	var out, errBuf bytes.Buffer
	diag = NewDiagnostics(&errBuf)
	interp := NewInterpreter(&out, diag)
	Run([]byte(source), diag, interp)
	return out.String(), errBuf.String(), diag
}
