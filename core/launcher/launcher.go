// Package launcher starts external programs for the interpreter.
package launcher

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os/exec"
	"sync"
	"syscall"

	"github.com/ex11-team/simplesh/core/logger"
	"github.com/ex11-team/simplesh/core/vos"
)

// BackgroundToken marks a command to be run detached when it's the final
// token of a line.
const BackgroundToken = "&"

// ErrMissingCommand is returned for a line made only of the background token.
var ErrMissingCommand = errors.New("missing command before &")

// Error is returned when a program can't be resolved or started.
type Error struct {
	// Name is the program name as typed.
	Name string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Err, vos.ErrNotFound):
		return e.Name + ": command not found"
	case errors.Is(e.Err, fs.ErrPermission):
		return e.Name + ": permission denied"
	default:
		return e.Name + ": " + e.Err.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Launcher runs external programs in the foreground or detached in the
// background.
type Launcher struct {
	OS     vos.VOS
	Events *logger.SessionLogger
	// ReapBackground waits on detached programs so they don't linger as
	// zombies. Their status is only recorded as an event.
	ReapBackground bool

	// BeforeForeground and AfterForeground bracket a foreground program,
	// they're used to hand the terminal over.
	BeforeForeground func()
	AfterForeground  func()

	mu         sync.Mutex
	foreground int
	reapers    sync.WaitGroup
}

// SplitBackground strips a trailing background token.
func SplitBackground(argv []string) ([]string, bool) {
	if len(argv) > 0 && argv[len(argv)-1] == BackgroundToken {
		return argv[:len(argv)-1], true
	}
	return argv, false
}

// Foreground returns the pid of the running foreground program or 0.
func (l *Launcher) Foreground() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.foreground
}

func (l *Launcher) setForeground(pid int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.foreground = pid
}

// WaitBackground blocks until every reaped background program has exited.
func (l *Launcher) WaitBackground() {
	l.reapers.Wait()
}

func (l *Launcher) record(event *logger.Event) {
	if l.Events == nil {
		return
	}
	if err := l.Events.Record(event); err != nil {
		log.Printf("recording %s event: %v", event.Kind, err)
	}
}

// Launch resolves and runs argv. Diagnostics are written to the OS's
// stderr, the returned error is for the caller's bookkeeping. The exit
// status of the program is never reported.
func (l *Launcher) Launch(argv []string) error {
	argv, background := SplitBackground(argv)
	if len(argv) == 0 {
		fmt.Fprintf(l.OS.Stderr(), "simplesh: %v\n", ErrMissingCommand)
		return ErrMissingCommand
	}

	path, err := vos.LookPath(l.OS, argv[0])
	if err != nil {
		return l.fail(argv, err)
	}

	cmd := &exec.Cmd{
		Path: path,
		Args: argv,
		Env:  l.OS.Environ(),
	}

	if background {
		return l.startBackground(cmd)
	}
	return l.runForeground(cmd)
}

func (l *Launcher) fail(argv []string, err error) error {
	launchErr := &Error{Name: argv[0], Err: err}
	fmt.Fprintln(l.OS.Stderr(), launchErr)
	l.record(logger.UnknownCommand(argv, err))
	return launchErr
}

func (l *Launcher) runForeground(cmd *exec.Cmd) error {
	cmd.Stdin = l.OS.Stdin()
	cmd.Stdout = l.OS.Stdout()
	cmd.Stderr = l.OS.Stderr()

	if l.BeforeForeground != nil {
		l.BeforeForeground()
	}
	if l.AfterForeground != nil {
		defer l.AfterForeground()
	}

	if err := cmd.Start(); err != nil {
		return l.fail(cmd.Args, err)
	}

	pid := cmd.Process.Pid
	l.setForeground(pid)
	l.record(logger.RunCommand(cmd.Args, cmd.Path, pid, false))

	// Exit errors are the program's business.
	_ = cmd.Wait()
	l.setForeground(0)

	l.record(logger.CommandExited(cmd.Args, pid, cmd.ProcessState, false))
	return nil
}

func (l *Launcher) startBackground(cmd *exec.Cmd) error {
	// Nil streams are connected to the null device.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return l.fail(cmd.Args, err)
	}

	pid := cmd.Process.Pid
	l.record(logger.RunCommand(cmd.Args, cmd.Path, pid, true))

	if l.ReapBackground {
		l.reapers.Add(1)
		go func() {
			defer l.reapers.Done()
			_ = cmd.Wait()
			l.record(logger.CommandExited(cmd.Args, pid, cmd.ProcessState, true))
		}()
	}

	return nil
}
