package errors

import (
	"errors"
	"fmt"
)

// SnapshotNotReadyError indicates no collection cycle has completed yet,
// so the cache has nothing to serve.
type SnapshotNotReadyError struct{}

func NewSnapshotNotReadyError() *SnapshotNotReadyError {
	return &SnapshotNotReadyError{}
}

func (e *SnapshotNotReadyError) Error() string {
	return "snapshot not yet collected"
}

// IsSnapshotNotReadyError checks if the error is a SnapshotNotReadyError.
func IsSnapshotNotReadyError(err error) bool {
	var e *SnapshotNotReadyError
	return errors.As(err, &e)
}

// MonitorStoppedError indicates the refresh loop is no longer running and
// cannot accept triggers.
type MonitorStoppedError struct{}

func NewMonitorStoppedError() *MonitorStoppedError {
	return &MonitorStoppedError{}
}

func (e *MonitorStoppedError) Error() string {
	return "monitor stopped"
}

func IsMonitorStoppedError(err error) bool {
	var e *MonitorStoppedError
	return errors.As(err, &e)
}

// UnknownToolError indicates a tool kind with no registered parser.
type UnknownToolError struct {
	Kind string
}

func NewUnknownToolError(kind string) *UnknownToolError {
	return &UnknownToolError{Kind: kind}
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("no parser registered for tool %q", e.Kind)
}

func IsUnknownToolError(err error) bool {
	var e *UnknownToolError
	return errors.As(err, &e)
}
