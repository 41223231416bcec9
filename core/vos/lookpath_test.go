package vos

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFinder struct {
	*MapEnv
	*HostFs
}

func newTestFinder(path ...string) *testFinder {
	env := NewMapEnv()
	env.Setenv(EnvPath, filepath.Join(path...))
	return &testFinder{MapEnv: env, HostFs: NewHostFs()}
}

func writeFile(t *testing.T, name string, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.WriteFile(name, []byte("#!/bin/sh\n"), perm))
	// WriteFile is subject to the umask, force the bits under test.
	require.NoError(t, os.Chmod(name, perm))
}

func TestLookPath(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, filepath.Join(first, "noexec"), 0644)
	writeFile(t, filepath.Join(second, "prog"), 0755)
	writeFile(t, filepath.Join(second, "noexec"), 0755)
	require.NoError(t, os.Mkdir(filepath.Join(first, "adir"), 0755))

	finder := newTestFinder()
	finder.Setenv(EnvPath, first+string(filepath.ListSeparator)+second)

	cases := map[string]struct {
		name    string
		want    string
		wantErr error
	}{
		"found in later dir": {
			name: "prog",
			want: filepath.Join(second, "prog"),
		},
		"skips non-executable": {
			name: "noexec",
			want: filepath.Join(second, "noexec"),
		},
		"missing": {
			name:    "does-not-exist",
			wantErr: ErrNotFound,
		},
		"directory": {
			name:    "adir",
			wantErr: fs.ErrPermission,
		},
		"slash skips path": {
			name: filepath.Join(second, "prog"),
			want: filepath.Join(second, "prog"),
		},
		"slash missing": {
			name:    filepath.Join(first, "prog"),
			wantErr: ErrNotFound,
		},
		"slash not executable": {
			name:    filepath.Join(first, "noexec"),
			wantErr: fs.ErrPermission,
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			got, err := LookPath(finder, tc.name)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLookPath_emptyPath(t *testing.T) {
	finder := newTestFinder()
	finder.Setenv(EnvPath, "")

	_, err := LookPath(finder, "sh")
	assert.ErrorIs(t, err, ErrNotFound)
}
