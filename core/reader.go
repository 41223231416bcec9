package core

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/abiosoft/readline"
	"github.com/ex11-team/simplesh/core/vos"
)

// LineReader reads one line at a time, without its terminator.
type LineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
	Close() error
}

// historyReader is implemented by readers with their own recall history.
type historyReader interface {
	AddHistory(line string)
	ResetHistory()
}

// suspender is implemented by readers that must release the terminal while
// a foreground program runs.
type suspender interface {
	Suspend()
}

// NewLineReader picks a line editor for terminals and a plain reader for
// anything else, so piped input is taken byte for byte.
func NewLineReader(vio vos.VIO, interactive bool, historyLimit int) LineReader {
	if interactive {
		return NewReadlineReader(vio, historyLimit)
	}
	return NewPlainReader(vio.Stdin(), vio.Stdout())
}

// ReadlineReader edits lines on a terminal. The underlying instance is
// dropped while a foreground program runs and reopened on the next read.
type ReadlineReader struct {
	vio          vos.VIO
	historyLimit int

	mu       sync.Mutex
	instance *readline.Instance
	stdin    *readline.CancelableStdin
	prompt   string
	history  []string
}

var _ LineReader = (*ReadlineReader)(nil)
var _ historyReader = (*ReadlineReader)(nil)
var _ suspender = (*ReadlineReader)(nil)

func NewReadlineReader(vio vos.VIO, historyLimit int) *ReadlineReader {
	return &ReadlineReader{
		vio:          vio,
		historyLimit: historyLimit,
	}
}

func (r *ReadlineReader) open() (*readline.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.instance != nil {
		return r.instance, nil
	}

	limit := r.historyLimit
	if limit == 0 {
		// Zero means the library default, negative disables history.
		limit = -1
	}

	stdin := readline.NewCancelableStdin(r.vio.Stdin())
	cfg := &readline.Config{
		Prompt:                 r.prompt,
		Stdin:                  stdin,
		Stdout:                 r.vio.Stdout(),
		Stderr:                 r.vio.Stderr(),
		HistoryLimit:           limit,
		DisableAutoSaveHistory: true,
	}

	if err := cfg.Init(); err != nil {
		stdin.Close()
		return nil, err
	}

	instance, err := readline.NewEx(cfg)
	if err != nil {
		stdin.Close()
		return nil, err
	}

	for _, line := range r.history {
		_ = instance.SaveHistory(line)
	}

	r.instance = instance
	r.stdin = stdin
	return instance, nil
}

// SetPrompt implements LineReader.SetPrompt.
func (r *ReadlineReader) SetPrompt(prompt string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prompt = prompt
	if r.instance != nil {
		r.instance.SetPrompt(prompt)
	}
}

// Readline implements LineReader.Readline.
func (r *ReadlineReader) Readline() (string, error) {
	instance, err := r.open()
	if err != nil {
		return "", err
	}
	return instance.Readline()
}

// AddHistory makes a line available to recall.
func (r *ReadlineReader) AddHistory(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.historyLimit <= 0 {
		return
	}
	r.history = append(r.history, line)
	if len(r.history) > r.historyLimit {
		r.history = r.history[len(r.history)-r.historyLimit:]
	}
	if r.instance != nil {
		_ = r.instance.SaveHistory(line)
	}
}

// ResetHistory forgets every line.
func (r *ReadlineReader) ResetHistory() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.history = nil
	if r.instance != nil {
		r.instance.Operation.ResetHistory()
	}
}

// Suspend restores the terminal and stops reading until the next Readline.
func (r *ReadlineReader) Suspend() {
	_ = r.Close()
}

// Close implements LineReader.Close.
func (r *ReadlineReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.instance == nil {
		return nil
	}

	// The terminal waits for its reader on close and only closes its own
	// wrapper, so a read blocked on stdin has to be cancelled first.
	r.stdin.Close()
	err := r.instance.Close()
	r.instance = nil
	r.stdin = nil
	return err
}

// PlainReader reads newline terminated lines without any editing.
type PlainReader struct {
	in     *bufio.Reader
	out    io.Writer
	prompt string
}

var _ LineReader = (*PlainReader)(nil)

func NewPlainReader(in io.Reader, out io.Writer) *PlainReader {
	return &PlainReader{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// SetPrompt implements LineReader.SetPrompt.
func (p *PlainReader) SetPrompt(prompt string) {
	p.prompt = prompt
}

// Readline implements LineReader.Readline. A final line without a newline
// is returned before io.EOF.
func (p *PlainReader) Readline() (string, error) {
	fmt.Fprint(p.out, p.prompt)

	line, err := p.in.ReadString('\n')
	switch {
	case err == io.EOF && line != "":
		return line, nil
	case err != nil:
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}

// Close implements LineReader.Close.
func (p *PlainReader) Close() error {
	return nil
}
