// Package logger records what happens in an interpreter session as newline
// delimited JSON events.
//
// Each entry is a protobuf Struct serialized with protojson so the log can be
// consumed by anything that reads JSON.
package logger
