package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures interaction events for a session.
type Logger struct {
	Record LogRecorder
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	var mu sync.Mutex
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := le.MarshalJSON()
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewNopLogger creates a Logger that drops every event.
func NewNopLogger() *Logger {
	return &Logger{
		Record: func(*LogEntry) error { return nil },
	}
}

func (l *Logger) recordEvent(sessionID string, event *Event) error {
	payload, err := structpb.NewStruct(event.Fields)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", event.Kind, err)
	}

	return l.Record(&LogEntry{
		TimestampMicros: time.Now().UnixMicro(),
		SessionID:       sessionID,
		Kind:            event.Kind,
		Event:           payload,
	})
}

// NewSession creates a logger with attached session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: fmt.Sprintf("%d", rand.Uint64())}
}

// SessionLogger logs messages with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

// SessionID returns the ID attached to every event.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

func (l *SessionLogger) Record(event *Event) error {
	return l.recordEvent(l.sessionID, event)
}

// LogEntry is a single line of the event log.
type LogEntry struct {
	TimestampMicros int64
	SessionID       string
	Kind            string
	Event           *structpb.Struct
}

func (le *LogEntry) toStruct() *structpb.Struct {
	event := le.Event
	if event == nil {
		event = &structpb.Struct{}
	}
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"timestamp_micros": structpb.NewNumberValue(float64(le.TimestampMicros)),
			"session_id":       structpb.NewStringValue(le.SessionID),
			"kind":             structpb.NewStringValue(le.Kind),
			"event":            structpb.NewStructValue(event),
		},
	}
}

// MarshalJSON implements json.Marshaler, the output is always a single line.
func (le *LogEntry) MarshalJSON() ([]byte, error) {
	raw, err := protojson.Marshal(le.toStruct())
	if err != nil {
		return nil, err
	}

	// protojson doesn't promise stable whitespace.
	var out bytes.Buffer
	if err := json.Compact(&out, raw); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (le *LogEntry) UnmarshalJSON(data []byte) error {
	var entry structpb.Struct
	if err := protojson.Unmarshal(data, &entry); err != nil {
		return err
	}

	fields := entry.GetFields()
	le.TimestampMicros = int64(fields["timestamp_micros"].GetNumberValue())
	le.SessionID = fields["session_id"].GetStringValue()
	le.Kind = fields["kind"].GetStringValue()
	le.Event = fields["event"].GetStructValue()
	return nil
}

// Command returns the argument vector the event was about, if any.
func (le *LogEntry) Command() []string {
	var out []string
	for _, v := range le.Event.GetFields()["command"].GetListValue().GetValues() {
		out = append(out, v.GetStringValue())
	}
	return out
}

// CommandName returns the first element of Command() or the empty string.
func (le *LogEntry) CommandName() string {
	if cmd := le.Command(); len(cmd) > 0 {
		return cmd[0]
	}
	return ""
}

// GetString returns the string field of the event payload.
func (le *LogEntry) GetString(field string) string {
	return le.Event.GetFields()[field].GetStringValue()
}

// GetNumber returns the numeric field of the event payload.
func (le *LogEntry) GetNumber(field string) float64 {
	return le.Event.GetFields()[field].GetNumberValue()
}

// GetBool returns the boolean field of the event payload.
func (le *LogEntry) GetBool(field string) bool {
	return le.Event.GetFields()[field].GetBoolValue()
}

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var rawEntry json.RawMessage
		if err := decoder.Decode(&rawEntry); err != nil {
			return err
		}

		var logEntry LogEntry
		if err := logEntry.UnmarshalJSON(rawEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}
