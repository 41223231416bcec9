package logger

import (
	"encoding/json"
	"fmt"
	"sort"
)

// NewReport creates an empty Report.
func NewReport() *Report {
	return &Report{
		InvalidInvocations: NewPathCounter("command", "error"),
		UnknownCommands:    NewPathCounter("command", "error"),
		Signals:            NewPathCounter("signal", "action"),
	}
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       int        `json:"sessions"`
	Kinds          StrCounter `json:"kinds"`
	InvalidEntries StrCounter `json:"unknown_log_entries"`

	RunBuiltin    RunBuiltinReport    `json:"run_builtin_report"`
	RunCommand    RunCommandReport    `json:"run_command_report"`
	CommandExited CommandExitedReport `json:"command_exited_report"`

	InvalidInvocations *PathCounter `json:"invalid_invocations"`
	UnknownCommands    *PathCounter `json:"unknown_commands"`
	Signals            *PathCounter `json:"signals"`

	sessions map[string]bool
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++
	r.Kinds.Increment(le.Kind)

	if r.sessions == nil {
		r.sessions = make(map[string]bool)
	}
	if !r.sessions[le.SessionID] {
		r.sessions[le.SessionID] = true
		r.Sessions++
	}

	switch le.Kind {
	case KindRunBuiltin:
		r.RunBuiltin.update(le)
	case KindRunCommand:
		r.RunCommand.update(le)
	case KindCommandExited:
		r.CommandExited.update(le)
	case KindUnknownCommand:
		r.UnknownCommands.Increment(le.CommandName(), le.GetString("error_message"))
	case KindInvalidInvocation:
		r.InvalidInvocations.Increment(le.CommandName(), le.GetString("error"))
	case KindSignal:
		r.Signals.Increment(le.GetString("signal"), le.GetString("action"))
	default:
		r.InvalidEntries.Increment(le.Kind)
	}
}

type RunBuiltinReport struct {
	CommandNames StrCounter `json:"command_names"`
	Failures     StrCounter `json:"failures"`
}

func (r *RunBuiltinReport) update(le *LogEntry) {
	r.CommandNames.Increment(le.CommandName())
	if le.GetNumber("exit_code") != 0 {
		r.Failures.Increment(le.CommandName())
	}
}

type RunCommandReport struct {
	// Name of the resolved command
	ResolvedCommandPaths StrCounter `json:"resolved_command_paths"`
	// Name of the command
	CommandNames StrCounter `json:"command_names"`
	Background   int        `json:"background"`
}

func (r *RunCommandReport) update(le *LogEntry) {
	r.ResolvedCommandPaths.Increment(le.GetString("resolved_command_path"))
	r.CommandNames.Increment(le.CommandName())
	if le.GetBool("background") {
		r.Background++
	}
}

type CommandExitedReport struct {
	ExitCodes StrCounter `json:"exit_codes"`
}

func (r *CommandExitedReport) update(le *LogEntry) {
	r.ExitCodes.Increment(fmt.Sprintf("%d", int(le.GetNumber("exit_code"))))
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for the key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implements a custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts tuples of strings.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for the tuple.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implements a custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
