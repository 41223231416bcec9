package logger

import "os"

// Event kinds.
const (
	KindRunBuiltin        = "run_builtin"
	KindRunCommand        = "run_command"
	KindCommandExited     = "command_exited"
	KindUnknownCommand    = "unknown_command"
	KindInvalidInvocation = "invalid_invocation"
	KindSignal            = "signal"
)

// Event is a log payload waiting to be recorded.
type Event struct {
	Kind   string
	Fields map[string]interface{}
}

func command(argv []string) []interface{} {
	out := make([]interface{}, len(argv))
	for i, arg := range argv {
		out[i] = arg
	}
	return out
}

// RunBuiltin is logged when a builtin finishes.
func RunBuiltin(argv []string, exitCode int) *Event {
	return &Event{
		Kind: KindRunBuiltin,
		Fields: map[string]interface{}{
			"command":   command(argv),
			"exit_code": exitCode,
		},
	}
}

// RunCommand is logged when an external program is started.
func RunCommand(argv []string, resolvedPath string, pid int, background bool) *Event {
	return &Event{
		Kind: KindRunCommand,
		Fields: map[string]interface{}{
			"command":               command(argv),
			"resolved_command_path": resolvedPath,
			"pid":                   pid,
			"background":            background,
		},
	}
}

// CommandExited is logged when a started program is waited on.
func CommandExited(argv []string, pid int, state *os.ProcessState, background bool) *Event {
	fields := map[string]interface{}{
		"command":    command(argv),
		"pid":        pid,
		"background": background,
		"exit_code":  -1,
	}
	if state != nil {
		fields["exit_code"] = state.ExitCode()
		fields["status"] = state.String()
	}
	return &Event{Kind: KindCommandExited, Fields: fields}
}

// UnknownCommand is logged when a program can't be found or started.
func UnknownCommand(argv []string, err error) *Event {
	return &Event{
		Kind: KindUnknownCommand,
		Fields: map[string]interface{}{
			"command":       command(argv),
			"error_message": err.Error(),
		},
	}
}

// InvalidInvocation is logged when a line is rejected before dispatch.
func InvalidInvocation(argv []string, err error) *Event {
	return &Event{
		Kind: KindInvalidInvocation,
		Fields: map[string]interface{}{
			"command": command(argv),
			"error":   err.Error(),
		},
	}
}

// Signal is logged when an interactive signal is handled.
func Signal(name, policy, action string) *Event {
	return &Event{
		Kind: KindSignal,
		Fields: map[string]interface{}{
			"signal": name,
			"policy": policy,
			"action": action,
		},
	}
}
