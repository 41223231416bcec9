// Package shell splits input lines into argument tokens.
package shell

import (
	"errors"
	"fmt"

	"github.com/anmitsu/go-shlex"
)

var (
	// ErrLineTooLong is returned for lines that don't fit the input buffer.
	ErrLineTooLong = errors.New("line too long")
	// ErrTooManyArgs is returned for lines with more tokens than the
	// argument vector holds.
	ErrTooManyArgs = errors.New("too many arguments")
	// ErrSyntax is returned for unbalanced quotes or escapes in quoting mode.
	ErrSyntax = errors.New("syntax error")
)

func isSeparator(c byte) bool {
	return c == ' ' || c == '\t'
}

// Tokenize splits line on runs of spaces and tabs. There is no quoting,
// escaping or comment handling. Tokens are substrings of line, so no bytes
// are copied.
func Tokenize(line string) []string {
	var tokens []string
	for i := 0; i < len(line); {
		if isSeparator(line[i]) {
			i++
			continue
		}
		start := i
		for i < len(line) && !isSeparator(line[i]) {
			i++
		}
		tokens = append(tokens, line[start:i])
	}
	return tokens
}

// CheckLength rejects lines that wouldn't fit a buffer of max bytes with
// room for the terminator.
func CheckLength(line string, max int) error {
	if len(line)+1 > max {
		return fmt.Errorf("%w (max %d bytes)", ErrLineTooLong, max-1)
	}
	return nil
}

// Parser turns a line into a bounded argument vector.
type Parser struct {
	// MaxArgs is the capacity of the argument vector including its
	// terminating slot, so at most MaxArgs-1 tokens are accepted.
	MaxArgs int
	// Quoting enables POSIX style quotes and escapes.
	Quoting bool
}

// Parse splits the line. Lines with too many tokens are rejected whole.
func (p *Parser) Parse(line string) ([]string, error) {
	var tokens []string
	if p.Quoting {
		var err error
		tokens, err = shlex.Split(line, true)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
	} else {
		tokens = Tokenize(line)
	}

	if p.MaxArgs > 0 && len(tokens) > p.MaxArgs-1 {
		return nil, fmt.Errorf("%w (max %d)", ErrTooManyArgs, p.MaxArgs-1)
	}
	return tokens, nil
}
