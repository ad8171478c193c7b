package flo

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsafeSource is returned when a connection would let a source
	// observe a context which cannot reach the state it depends on.
	ErrUnsafeSource = errors.New("source not safe")
	// ErrCycle is returned when a connection would make the graph cyclic.
	ErrCycle = errors.New("connection creates a cycle")
	// ErrStrandsState is returned when a disconnection would leave a number
	// connection without the state it depends on.
	ErrStrandsState = errors.New("disconnection strands state")
	// ErrNotConnected is returned when disconnecting an input without source
	// or connecting a nil source.
	ErrNotConnected = errors.New("input not connected")
)

// ConnectionError is returned by Graph when a wire edit is rejected. The
// graph is left exactly as it was before the call.
type ConnectionError struct {
	Op  string
	Dst string
	Src string
	Err error
}

func (e *ConnectionError) Error() string {
	if e.Src == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Dst, e.Err)
	}
	return fmt.Sprintf("%s %s to %s: %v", e.Op, e.Src, e.Dst, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// violated panics with a formatted message. It's used for structural
// invariants which callers must have checked through the gate functions.
func violated(format string, args ...interface{}) {
	panic(fmt.Sprintf("flo: "+format, args...))
}
