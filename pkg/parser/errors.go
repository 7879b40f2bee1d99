package parser

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/storelint/pkg/token"
)

// ErrSyntax is wrapped by every error returned from Parse.
var ErrSyntax = errors.New("syntax error")

// ParseError represents a parsing error with position information.
type ParseError struct {
	Filename string
	Pos      token.Position
	Message  string
}

func (e *ParseError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Pos.Line, e.Pos.Column, e.Message)
	}
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Unwrap makes errors.Is(err, ErrSyntax) hold.
func (e *ParseError) Unwrap() error { return ErrSyntax }

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Unwrap makes errors.Is(err, ErrSyntax) hold.
func (e *LexError) Unwrap() error { return ErrSyntax }

// Common error messages
const (
	ErrUnexpectedToken      = "unexpected token %s, expected %s"
	ErrUnterminatedString   = "unterminated string literal"
	ErrUnterminatedTemplate = "unterminated template literal"
	ErrUnterminatedRegex    = "unterminated regular expression"
	ErrUnterminatedComment  = "unterminated block comment"
	ErrMissingSemicolon     = "expected ';' or a line break before %s"
	ErrUnsupported          = "unsupported syntax: %s"
)
