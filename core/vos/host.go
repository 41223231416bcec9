package vos

import "os"

// HostOS is a VOS over the real operating system. The working directory is
// the process working directory so launched programs inherit it.
type HostOS struct {
	VEnv
	VIO
	*HostFs
}

var _ VOS = (*HostOS)(nil)

// NewHostOS creates a VOS with the given stdio. A nil io uses the
// interpreter's own standard streams.
func NewHostOS(io VIO) *HostOS {
	if io == nil {
		io = NewHostIO()
	}

	return &HostOS{
		VEnv:   HostEnv{},
		VIO:    io,
		HostFs: NewHostFs(),
	}
}

// Getwd implements VProc.Getwd.
func (h *HostOS) Getwd() (string, error) {
	return os.Getwd()
}

// Chdir implements VProc.Chdir.
func (h *HostOS) Chdir(dir string) error {
	return os.Chdir(dir)
}
