package lox

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, source string) ([]Token, *Diagnostics) {
	t.Helper()
	var errBuf bytes.Buffer
	diag := NewDiagnostics(&errBuf)
	toks := NewScanner([]byte(source), diag).ScanTokens()
	return toks, diag
}

func TestScannerOperators(t *testing.T) {
	toks, diag := scanAll(t, "(){},.-+;*/ != == <= >= = ! < > -")
	require.False(t, diag.HadError)

	want := []TokenType{
		LEFT_PAREN, RIGHT_PAREN, LEFT_BRACE, RIGHT_BRACE, COMMA, DOT,
		MINUS, PLUS, SEMICOLON, STAR, SLASH,
		BANG_EQUAL, EQUAL_EQUAL, LESS_EQUAL, GREATER_EQUAL, EQUAL, BANG,
		LESS, GREATER, MINUS, EOF,
	}
	require.Len(t, toks, len(want))
	for i, ty := range want {
		require.Equalf(t, ty, toks[i].Type, "token %d", i)
	}
}

func TestScannerLineComment(t *testing.T) {
	toks, diag := scanAll(t, "1 // a comment\n2")
	require.False(t, diag.HadError)

	if diff := cmp.Diff([]TokenType{NUMBER, NUMBER, EOF}, []TokenType{toks[0].Type, toks[1].Type, toks[2].Type}); diff != "" {
		t.Errorf("token types mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 2, toks[1].Line)
}

func TestScannerStringLiteral(t *testing.T) {
	toks, diag := scanAll(t, `"hello world"`)
	require.False(t, diag.HadError)
	require.Equal(t, STRING, toks[0].Type)
	require.Equal(t, "hello world", toks[0].StringLiteral)
}

func TestScannerMultilineString(t *testing.T) {
	toks, diag := scanAll(t, "\"a\nb\"\nc")
	require.False(t, diag.HadError)
	require.Equal(t, STRING, toks[0].Type)
	require.Equal(t, "a\nb", toks[0].StringLiteral)
	require.Equal(t, IDENTIFIER, toks[1].Type)
	require.Equal(t, 3, toks[1].Line)
}

func TestScannerUnterminatedString(t *testing.T) {
	_, diag := scanAll(t, `"unterminated`)
	require.True(t, diag.HadError)
}

func TestScannerNumberLiteral(t *testing.T) {
	toks, diag := scanAll(t, "123 45.67 0.5")
	require.False(t, diag.HadError)
	require.Equal(t, 123.0, toks[0].NumberLiteral)
	require.Equal(t, 45.67, toks[1].NumberLiteral)
	require.Equal(t, 0.5, toks[2].NumberLiteral)
}

func TestScannerKeywordsVsIdentifiers(t *testing.T) {
	toks, diag := scanAll(t, "and class orchid")
	require.False(t, diag.HadError)
	require.Equal(t, AND, toks[0].Type)
	require.Equal(t, CLASS, toks[1].Type)
	require.Equal(t, IDENTIFIER, toks[2].Type) // "orchid" must not match "or"
}

func TestScannerUnexpectedCharacterContinues(t *testing.T) {
	toks, diag := scanAll(t, "1 @ 2")
	require.True(t, diag.HadError)
	// scanning continues past the bad character (spec.md §4.B)
	require.Equal(t, NUMBER, toks[0].Type)
	require.Equal(t, NUMBER, toks[1].Type)
	require.Equal(t, EOF, toks[2].Type)
}
