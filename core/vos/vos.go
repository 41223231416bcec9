// Package vos is the interpreter's view of the operating system.
//
// Builtins never touch the os package directly, they go through a VOS so
// the same code can run against captured stdio in tests.
package vos

// VProc holds the process-wide state a builtin can read or change.
type VProc interface {
	// Getwd returns the absolute path of the working directory.
	Getwd() (dir string, err error)

	// Chdir changes the working directory. Children started afterwards
	// inherit the new directory, already running ones do not.
	Chdir(dir string) error
}

// VOS provides a virtual OS interface.
type VOS interface {
	VEnv
	VIO
	VProc
	VFS
	Linker
}
