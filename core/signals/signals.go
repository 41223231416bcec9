// Package signals reacts to the interactive interrupt and terminal-stop
// signals.
package signals

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/ex11-team/simplesh/core/logger"
	"golang.org/x/sys/unix"
)

const (
	// PolicyInterpreter ends or suspends the interpreter itself.
	PolicyInterpreter = "interpreter"
	// PolicyForeground only affects the running foreground program.
	PolicyForeground = "foreground"
)

// DefaultBeforeExitTimeout bounds how long termination waits on BeforeExit.
const DefaultBeforeExitTimeout = 500 * time.Millisecond

// Actions recorded in the event log.
const (
	ActionTerminate = "terminate"
	ActionSuspend   = "suspend"
	ActionForward   = "forward"
	ActionContinue  = "continue"
	ActionIgnore    = "ignore"
)

// Handler applies a signal policy. Each delivered signal is handled once,
// the notice and the action are never interleaved with another signal.
type Handler struct {
	Policy string
	Out    io.Writer
	// Foreground returns the pid of the foreground program or 0.
	Foreground func() int
	// BeforeExit runs before the interpreter terminates itself. The
	// interpreter is terminated anyway once BeforeExitTimeout passes.
	BeforeExit        func()
	BeforeExitTimeout time.Duration

	Events *logger.SessionLogger

	Kill   func(pid int, sig unix.Signal) error
	Getpid func() int

	mu sync.Mutex
}

// New creates a Handler acting on the real process.
func New(policy string, out io.Writer, foreground func() int) *Handler {
	return &Handler{
		Policy:     policy,
		Out:        out,
		Foreground: foreground,
		Kill:       unix.Kill,
		Getpid:     unix.Getpid,

		BeforeExitTimeout: DefaultBeforeExitTimeout,
	}
}

// Start installs the handler and processes signals until ctx is done.
func (h *Handler) Start(ctx context.Context) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGINT, unix.SIGTSTP)

	go func() {
		defer signal.Stop(sigs)
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigs:
				h.Handle(sig)
			}
		}
	}()
}

// Handle applies the policy to one signal.
func (h *Handler) Handle(sig os.Signal) {
	h.mu.Lock()
	defer h.mu.Unlock()

	unixSig, ok := sig.(unix.Signal)
	if !ok {
		return
	}

	switch h.Policy {
	case PolicyForeground:
		h.handleForeground(unixSig)
	default:
		h.handleInterpreter(unixSig)
	}
}

func (h *Handler) handleInterpreter(sig unix.Signal) {
	switch sig {
	case unix.SIGINT:
		fmt.Fprintln(h.Out, "\nCtrl-C (SIGINT)")
		h.record(sig, ActionTerminate)
		h.runBeforeExit()
		h.kill(h.Getpid(), unix.SIGTERM)
	case unix.SIGTSTP:
		fmt.Fprintln(h.Out, "\nCtrl-Z (SIGTSTP)")
		h.record(sig, ActionSuspend)
		h.kill(h.Getpid(), unix.SIGSTOP)
	}
}

func (h *Handler) handleForeground(sig unix.Signal) {
	pid := 0
	if h.Foreground != nil {
		pid = h.Foreground()
	}

	switch sig {
	case unix.SIGINT:
		if pid == 0 {
			fmt.Fprintln(h.Out)
			h.record(sig, ActionIgnore)
			return
		}
		h.record(sig, ActionForward)
		h.kill(pid, unix.SIGINT)
	case unix.SIGTSTP:
		fmt.Fprintln(h.Out, "\njob control not supported")
		if pid == 0 {
			h.record(sig, ActionIgnore)
			return
		}
		// Nothing could resume a stopped program later.
		h.record(sig, ActionContinue)
		h.kill(pid, unix.SIGCONT)
	}
}

func (h *Handler) runBeforeExit() {
	if h.BeforeExit == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.BeforeExit()
	}()

	timeout := h.BeforeExitTimeout
	if timeout <= 0 {
		timeout = DefaultBeforeExitTimeout
	}

	select {
	case <-done:
	case <-time.After(timeout):
		log.Printf("terminal cleanup still running after %v, terminating", timeout)
	}
}

func (h *Handler) record(sig unix.Signal, action string) {
	if h.Events == nil {
		return
	}
	if err := h.Events.Record(logger.Signal(unix.SignalName(sig), h.Policy, action)); err != nil {
		log.Printf("recording signal event: %v", err)
	}
}

func (h *Handler) kill(pid int, sig unix.Signal) {
	if err := h.Kill(pid, sig); err != nil {
		log.Printf("sending %s to %d: %v", unix.SignalName(sig), pid, err)
	}
}
