// Package vostest runs builtins against captured stdio.
package vostest

import (
	"bytes"
	"io"

	"github.com/ex11-team/simplesh/core/vos"
)

// ProcessFunc matches the signature of a builtin.
type ProcessFunc = func(virtOS vos.VOS, args []string) int

// Cmd is similar to exec.Cmd.
type Cmd struct {
	// Process function
	Process ProcessFunc
	// Process arguments, the first argument should be the process name.
	Argv []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	ExitStatus int

	// Setup runs against the OS before the process.
	Setup func(vos.VOS) error
}

func Command(process ProcessFunc, name string, arg ...string) *Cmd {
	return &Cmd{
		Process: process,
		Argv:    append([]string{name}, arg...),
	}
}

// CombinedOutput runs the command and returns stdout and stderr interleaved.
func (c *Cmd) CombinedOutput() ([]byte, error) {
	buf := &bytes.Buffer{}
	c.Stdout = buf
	c.Stderr = buf

	err := c.Run()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Output runs the command and returns stdout and stderr separately.
func (c *Cmd) Output() (stdout, stderr []byte, err error) {
	outBuf, errBuf := &bytes.Buffer{}, &bytes.Buffer{}
	c.Stdout = outBuf
	c.Stderr = errBuf

	if err := c.Run(); err != nil {
		return nil, nil, err
	}
	return outBuf.Bytes(), errBuf.Bytes(), nil
}

// Run starts the comand and waits for it to complete.
func (c *Cmd) Run() error {
	hostOS := vos.NewHostOS(vos.NewVIOAdapter(c.Stdin, c.Stdout, c.Stderr))

	if c.Setup != nil {
		if err := c.Setup(hostOS); err != nil {
			return err
		}
	}

	c.ExitStatus = c.Process(hostOS, c.Argv)
	return nil
}
