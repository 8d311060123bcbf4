package rawtile

import "errors"

// Sentinel errors shared by all rawtile packages. Packages wrap them with
// context using fmt.Errorf and %w.
var (
	// ErrBadFormat reports a malformed or inconsistent opcode stream or
	// parameter set: size mismatch, invalid plane count, failed validity check.
	ErrBadFormat = errors.New("rawtile: bad format")

	// ErrProgram reports an internal invariant violation such as a wrong
	// pixel type passed to a typed accessor or an unsupported conversion.
	ErrProgram = errors.New("rawtile: program error")

	// ErrAborted reports cooperative cancellation requested through a sniffer.
	ErrAborted = errors.New("rawtile: aborted")

	// ErrMemoryFull reports an allocation request that cannot be satisfied.
	ErrMemoryFull = errors.New("rawtile: memory full")
)
