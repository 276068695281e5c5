// Package xerrors collects the sentinel errors shared across package boundaries, per
// spec.md §7's error-handling design. Callers compare against these with errors.Is; they
// are wrapped with context via fmt.Errorf("...: %w", err) at the point they're produced,
// following the teacher's own plain-error style (morlock carries no error-wrapping
// framework, and nothing else in the pack justifies pulling one in for this).
package xerrors

import "errors"

var (
	// ErrSpawnFailed indicates an engine process could not be started at all.
	ErrSpawnFailed = errors.New("engine failed to spawn")
	// ErrPipeClosed indicates a stdio pipe closed unexpectedly (engine crash or early exit).
	ErrPipeClosed = errors.New("engine pipe closed")
	// ErrTimeout indicates a read or handshake exceeded its configured deadline.
	ErrTimeout = errors.New("engine operation timed out")
	// ErrIllegalMove indicates an engine returned a move its GameRules adaptor rejected.
	ErrIllegalMove = errors.New("illegal move")
	// ErrDisconnect indicates the engine process is no longer reachable.
	ErrDisconnect = errors.New("engine disconnected")
	// ErrInterrupt indicates an in-flight operation was cancelled by the global stop flag.
	ErrInterrupt = errors.New("operation interrupted")
	// ErrBadConfig indicates a CLI flag or config file value failed validation.
	ErrBadConfig = errors.New("invalid configuration")
)
