package vos

import (
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotFound is the error resulting if a path search failed to find an executable file.
var ErrNotFound = exec.ErrNotFound

// EnvPath names the search path variable.
const EnvPath = "PATH"

// PathFinder is the part of a VOS needed to search for executables.
type PathFinder interface {
	VEnv
	Stat(name string) (fs.FileInfo, error)
}

func findExecutable(vos PathFinder, file string) error {
	d, err := vos.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath searches for an executable named file in the directories named by
// the PATH environment variable. If file contains a slash, it is tried directly
// and the PATH is not consulted. The result may be an absolute path or a path
// relative to the current directory.
func LookPath(vos PathFinder, file string) (string, error) {
	if strings.Contains(file, "/") {
		err := findExecutable(vos, file)
		if err == nil {
			return file, nil
		}
		return "", err
	}

	// A permission error on an earlier match is only reported if nothing
	// later in the path is executable.
	var firstErr error
	for _, dir := range filepath.SplitList(vos.Getenv(EnvPath)) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		err := findExecutable(vos, path)
		switch {
		case err == nil:
			return path, nil
		case firstErr == nil && !errors.Is(err, ErrNotFound):
			firstErr = err
		}
	}
	if firstErr != nil {
		return "", firstErr
	}
	return "", ErrNotFound
}
