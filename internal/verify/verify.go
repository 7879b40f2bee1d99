// Package verify checks that rewritten TypeScript still parses before it is
// written back to disk.
package verify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/leapstack-labs/storelint/pkg/parser"
)

// ErrInvalidSyntax is wrapped by every verification failure.
var ErrInvalidSyntax = errors.New("invalid syntax after fix")

// tsconfig enables the decorator syntax store code is written with.
const tsconfig = `{"compilerOptions":{"experimentalDecorators":true}}`

// Message is one syntax problem.
type Message struct {
	Line   int
	Column int
	Text   string
}

func (m Message) String() string {
	if m.Line == 0 {
		return m.Text
	}
	return fmt.Sprintf("%d:%d: %s", m.Line, m.Column, m.Text)
}

// Error lists the problems found in one file.
type Error struct {
	Filename string
	Messages []Message
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Messages))
	for i, m := range e.Messages {
		parts[i] = m.String()
	}
	return fmt.Sprintf("%s: %s: %s", e.Filename, ErrInvalidSyntax, strings.Join(parts, "; "))
}

func (e *Error) Unwrap() error { return ErrInvalidSyntax }

// Check transforms text with esbuild's TypeScript loader and parses it with
// the storelint parser. Both must accept it: esbuild guards against edits
// that break the file for the compiler, the parser against edits the next
// lint run could not read.
func Check(filename, text string) error {
	result := api.Transform(text, api.TransformOptions{
		Loader:      api.LoaderTS,
		Sourcefile:  filename,
		TsconfigRaw: tsconfig,
		Target:      api.ESNext,
		LogLevel:    api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		verr := &Error{Filename: filename}
		for _, m := range result.Errors {
			msg := Message{Text: m.Text}
			if m.Location != nil {
				msg.Line = m.Location.Line
				msg.Column = m.Location.Column + 1
			}
			verr.Messages = append(verr.Messages, msg)
		}
		return verr
	}

	if _, err := parser.Parse(filename, text); err != nil {
		return &Error{Filename: filename, Messages: []Message{{Text: err.Error()}}}
	}
	return nil
}
