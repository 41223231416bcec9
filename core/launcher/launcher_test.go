package launcher

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ex11-team/simplesh/core/logger"
	"github.com/ex11-team/simplesh/core/vos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

type testLauncher struct {
	*Launcher
	stdout bytes.Buffer
	stderr bytes.Buffer
	events bytes.Buffer
}

func newTestLauncher(t *testing.T) *testLauncher {
	t.Helper()

	tl := &testLauncher{}
	tl.Launcher = &Launcher{
		OS:             vos.NewHostOS(vos.NewVIOAdapter(nil, &tl.stdout, &tl.stderr)),
		Events:         logger.NewJsonLinesLogRecorder(&tl.events).NewSession(),
		ReapBackground: true,
	}
	t.Cleanup(tl.WaitBackground)
	return tl
}

func (tl *testLauncher) entries(t *testing.T) []*logger.LogEntry {
	t.Helper()

	var out []*logger.LogEntry
	require.NoError(t, logger.ReadJSONLinesLog(bytes.NewReader(tl.events.Bytes()), func(le *logger.LogEntry) {
		out = append(out, le)
	}))
	return out
}

func TestSplitBackground(t *testing.T) {
	cases := map[string]struct {
		argv           []string
		wantArgv       []string
		wantBackground bool
	}{
		"empty":          {argv: nil, wantArgv: nil},
		"foreground":     {argv: []string{"ls", "-l"}, wantArgv: []string{"ls", "-l"}},
		"background":     {argv: []string{"sleep", "5", "&"}, wantArgv: []string{"sleep", "5"}, wantBackground: true},
		"only ampersand": {argv: []string{"&"}, wantArgv: []string{}, wantBackground: true},
		"not last":       {argv: []string{"a", "&", "b"}, wantArgv: []string{"a", "&", "b"}},
		"attached":       {argv: []string{"sleep", "5&"}, wantArgv: []string{"sleep", "5&"}},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			gotArgv, gotBackground := SplitBackground(tc.argv)
			assert.Equal(t, tc.wantArgv, gotArgv)
			assert.Equal(t, tc.wantBackground, gotBackground)
		})
	}
}

func TestLaunch_foreground(t *testing.T) {
	tl := newTestLauncher(t)

	require.NoError(t, tl.Launch([]string{"/bin/sh", "-c", "echo hello; echo oops >&2"}))

	// The program has finished by the time Launch returns.
	assert.Equal(t, "hello\n", tl.stdout.String())
	assert.Equal(t, "oops\n", tl.stderr.String())
	assert.Equal(t, 0, tl.Foreground())

	entries := tl.entries(t)
	require.Len(t, entries, 2)
	assert.Equal(t, logger.KindRunCommand, entries[0].Kind)
	assert.Equal(t, "/bin/sh", entries[0].GetString("resolved_command_path"))
	assert.Equal(t, logger.KindCommandExited, entries[1].Kind)
}

func TestLaunch_exitStatusDiscarded(t *testing.T) {
	tl := newTestLauncher(t)

	assert.NoError(t, tl.Launch([]string{"/bin/sh", "-c", "exit 7"}))
	assert.Empty(t, tl.stderr.String())

	entries := tl.entries(t)
	require.Len(t, entries, 2)
	assert.Equal(t, float64(7), entries[1].GetNumber("exit_code"))
}

func TestLaunch_pathLookup(t *testing.T) {
	tl := newTestLauncher(t)

	require.NoError(t, tl.Launch([]string{"sh", "-c", "echo found"}))
	assert.Equal(t, "found\n", tl.stdout.String())
}

func TestLaunch_foregroundPid(t *testing.T) {
	tl := newTestLauncher(t)

	done := make(chan error)
	go func() {
		done <- tl.Launch([]string{"/bin/sh", "-c", "sleep 1"})
	}()

	assert.Eventually(t, func() bool {
		return tl.Foreground() != 0
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, <-done)
	assert.Equal(t, 0, tl.Foreground())
}

func TestLaunch_hooks(t *testing.T) {
	tl := newTestLauncher(t)

	var calls []string
	tl.BeforeForeground = func() { calls = append(calls, "before") }
	tl.AfterForeground = func() { calls = append(calls, "after") }

	require.NoError(t, tl.Launch([]string{"/bin/sh", "-c", "true"}))
	assert.Equal(t, []string{"before", "after"}, calls)
}

func TestLaunch_background(t *testing.T) {
	tl := newTestLauncher(t)
	out := filepath.Join(t.TempDir(), "args.txt")

	start := time.Now()
	script := `echo "$@" > ` + out + `; sleep 2`
	require.NoError(t, tl.Launch([]string{"/bin/sh", "-c", script, "sh", "a", "b", "&"}))
	assert.Less(t, time.Since(start), 2*time.Second, "background launch must not wait")
	assert.Equal(t, 0, tl.Foreground())

	// The & is never passed to the program.
	assert.Eventually(t, func() bool {
		got, err := os.ReadFile(out)
		return err == nil && string(got) == "a b\n"
	}, 5*time.Second, 10*time.Millisecond)

	tl.WaitBackground()
	entries := tl.entries(t)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].GetBool("background"))
	assert.Equal(t, []string{"/bin/sh", "-c", script, "sh", "a", "b"}, entries[0].Command())
	assert.Equal(t, logger.KindCommandExited, entries[1].Kind)
	assert.Equal(t, float64(0), entries[1].GetNumber("exit_code"))
}

func TestLaunch_backgroundDetached(t *testing.T) {
	tl := newTestLauncher(t)
	pidFile := filepath.Join(t.TempDir(), "pid")

	script := `echo $$ > ` + pidFile + `; read x; echo "read $x"; sleep 2`
	require.NoError(t, tl.Launch([]string{"/bin/sh", "-c", script, "&"}))

	var pid int
	require.Eventually(t, func() bool {
		got, err := os.ReadFile(pidFile)
		if err != nil || !strings.HasSuffix(string(got), "\n") {
			return false
		}
		pid, err = strconv.Atoi(strings.TrimSpace(string(got)))
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	// The program leads its own session so terminal signals never reach it.
	sid, err := unix.Getsid(pid)
	require.NoError(t, err)
	assert.Equal(t, pid, sid)

	tl.WaitBackground()
	// Output went to the null device.
	assert.Empty(t, tl.stdout.String())
	assert.Empty(t, tl.stderr.String())
}

func TestLaunch_noReap(t *testing.T) {
	tl := newTestLauncher(t)
	tl.ReapBackground = false

	require.NoError(t, tl.Launch([]string{"/bin/sh", "-c", "exit 0", "&"}))
	tl.WaitBackground()

	entries := tl.entries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, logger.KindRunCommand, entries[0].Kind)
}

func TestLaunch_errors(t *testing.T) {
	notExecutable := filepath.Join(t.TempDir(), "script.sh")
	require.NoError(t, os.WriteFile(notExecutable, []byte("#!/bin/sh\n"), 0644))

	cases := map[string]struct {
		argv       []string
		wantStderr string
		wantErr    error
	}{
		"not found": {
			argv:       []string{"simplesh-no-such-command"},
			wantStderr: "simplesh-no-such-command: command not found\n",
			wantErr:    vos.ErrNotFound,
		},
		"not found in background": {
			argv:       []string{"simplesh-no-such-command", "&"},
			wantStderr: "simplesh-no-such-command: command not found\n",
			wantErr:    vos.ErrNotFound,
		},
		"missing path": {
			argv:       []string{"/no/such/program"},
			wantStderr: "/no/such/program: command not found\n",
			wantErr:    vos.ErrNotFound,
		},
		"permission denied": {
			argv:       []string{notExecutable},
			wantStderr: notExecutable + ": permission denied\n",
			wantErr:    fs.ErrPermission,
		},
		"only ampersand": {
			argv:       []string{"&"},
			wantStderr: "simplesh: missing command before &\n",
			wantErr:    ErrMissingCommand,
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			tl := newTestLauncher(t)

			err := tl.Launch(tc.argv)
			assert.True(t, errors.Is(err, tc.wantErr), "got error %v", err)
			assert.Equal(t, tc.wantStderr, tl.stderr.String())
			assert.Empty(t, tl.stdout.String())
		})
	}
}

func TestLaunch_nilEvents(t *testing.T) {
	var stderr bytes.Buffer
	l := &Launcher{OS: vos.NewHostOS(vos.NewVIOAdapter(nil, nil, &stderr))}

	assert.NoError(t, l.Launch([]string{"/bin/sh", "-c", "true"}))
	assert.Error(t, l.Launch([]string{"simplesh-no-such-command"}))
	assert.Equal(t, "simplesh-no-such-command: command not found\n", stderr.String())
}
