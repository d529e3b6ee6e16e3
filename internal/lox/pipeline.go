package lox

// Run scans, parses, resolves, and — if no static error occurred —
// interprets source against interp. It is the single entry point
// shared by the file-mode and REPL drivers in cmd/lox; spec.md §7
// item 3 says the interpreter must not run when hadError is set.
func Run(source []byte, diag *Diagnostics, interp *Interpreter) {
	tokens := NewScanner(source, diag).ScanTokens()
	program := NewParser(tokens, diag).Parse()
	if diag.HadError {
		return
	}

	interp.Resolver().Resolve(program)
	if diag.HadError {
		return
	}

	interp.Interpret(program)
}
