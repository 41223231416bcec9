// Package core holds the interpreter loop.
package core

import (
	"errors"
	"fmt"
	"log"

	"github.com/abiosoft/readline"
	"github.com/ex11-team/simplesh/commands"
	"github.com/ex11-team/simplesh/core/config"
	"github.com/ex11-team/simplesh/core/launcher"
	"github.com/ex11-team/simplesh/core/logger"
	"github.com/ex11-team/simplesh/core/shell"
	"github.com/ex11-team/simplesh/core/signals"
	"github.com/ex11-team/simplesh/core/vos"
	"github.com/fatih/color"
	"golang.org/x/sys/unix"
)

// Shell reads lines and dispatches them to builtins or external programs.
type Shell struct {
	Config    *config.Configuration
	VirtualOS vos.VOS
	Reader    LineReader
	Builtins  *commands.Registry
	Launcher  *launcher.Launcher
	Signals   *signals.Handler
	Events    *logger.SessionLogger
	// Color enables the colored prompt.
	Color bool

	parser  shell.Parser
	history []string
	exiting bool
}

// NewShell wires a shell together. A nil events logger drops events.
func NewShell(cfg *config.Configuration, virtOS vos.VOS, reader LineReader, events *logger.SessionLogger) *Shell {
	if events == nil {
		events = logger.NewNopLogger().NewSession()
	}

	s := &Shell{
		Config:    cfg,
		VirtualOS: virtOS,
		Reader:    reader,
		Builtins:  commands.AllBuiltins,
		Events:    events,
		parser: shell.Parser{
			MaxArgs: cfg.MaxArgs,
			Quoting: cfg.Quoting,
		},
	}

	s.Launcher = &launcher.Launcher{
		OS:               virtOS,
		Events:           events,
		ReapBackground:   cfg.ReapBackground,
		BeforeForeground: s.suspendReader,
	}

	s.Signals = signals.New(cfg.SignalPolicy, virtOS.Stdout(), s.Launcher.Foreground)
	s.Signals.Events = events
	s.Signals.BeforeExit = func() {
		_ = s.Reader.Close()
	}

	return s
}

// Prompt returns the prompt for the next line.
func (s *Shell) Prompt() string {
	c := color.New(color.FgGreen, color.Bold)
	if s.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s.Config.Prompt)
}

// Run reads and dispatches lines until exit or a read failure, returning
// the interpreter's exit status.
func (s *Shell) Run() int {
	for {
		s.Reader.SetPrompt(s.Prompt())
		line, err := s.Reader.Readline()

		switch {
		case errors.Is(err, readline.ErrInterrupt):
			// Ctrl-C typed while the terminal is raw never raises SIGINT.
			s.Signals.Handle(unix.SIGINT)
			continue

		case err != nil:
			fmt.Fprintf(s.VirtualOS.Stderr(), "input error: %v\n", err)
			return 1
		}

		if exit, code := s.RunLine(line); exit {
			return code
		}
	}
}

// RunLine validates, records and dispatches a single line.
func (s *Shell) RunLine(line string) (exit bool, code int) {
	if err := shell.CheckLength(line, s.Config.MaxLineLength); err != nil {
		s.invalid(nil, err)
		return false, 0
	}

	argv, err := s.parser.Parse(line)
	if err != nil {
		s.invalid(nil, err)
		return false, 0
	}

	if len(argv) == 0 {
		return false, 0
	}

	s.addHistory(line)
	return s.Dispatch(argv)
}

// Dispatch runs argv by exact, case sensitive name: shell builtins, then
// file builtins, then external programs.
func (s *Shell) Dispatch(argv []string) (exit bool, code int) {
	if builtin, ok := ShellBuiltins[argv[0]]; ok {
		code := builtin.Main(s, argv)
		s.record(logger.RunBuiltin(argv, code))
		if s.exiting {
			return true, 0
		}
		return false, 0
	}

	if builtin, ok := s.Builtins.Lookup(argv[0]); ok {
		if len(argv)-1 < builtin.Args {
			s.record(logger.InvalidInvocation(argv, errors.New(builtin.Missing)))
		}
		code := builtin.Run(s.VirtualOS, argv)
		s.record(logger.RunBuiltin(argv, code))
		return false, 0
	}

	// Failures are already reported and logged by the launcher.
	_ = s.Launcher.Launch(argv)
	return false, 0
}

// Close releases the line reader.
func (s *Shell) Close() error {
	return s.Reader.Close()
}

func (s *Shell) invalid(argv []string, err error) {
	fmt.Fprintf(s.VirtualOS.Stderr(), "simplesh: %v\n", err)
	s.record(logger.InvalidInvocation(argv, err))
}

func (s *Shell) record(event *logger.Event) {
	if err := s.Events.Record(event); err != nil {
		log.Printf("recording %s event: %v", event.Kind, err)
	}
}

func (s *Shell) suspendReader() {
	if r, ok := s.Reader.(suspender); ok {
		r.Suspend()
	}
}

func (s *Shell) addHistory(line string) {
	limit := s.Config.HistoryLimit
	if limit <= 0 {
		return
	}

	s.history = append(s.history, line)
	if len(s.history) > limit {
		s.history = s.history[len(s.history)-limit:]
	}

	if r, ok := s.Reader.(historyReader); ok {
		r.AddHistory(line)
	}
}

// History returns the recorded lines, oldest first.
func (s *Shell) History() []string {
	return append([]string(nil), s.history...)
}

// ClearHistory forgets every recorded line.
func (s *Shell) ClearHistory() {
	s.history = nil
	if r, ok := s.Reader.(historyReader); ok {
		r.ResetHistory()
	}
}
