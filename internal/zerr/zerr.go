// Package zerr names the error kinds that can terminate the program, as
// distinct from the pass/fail booleans the validator produces for a single
// candidate attempt (those never become errors; see internal/crack).
package zerr

import "errors"

var (
	// ErrBadArgs covers invalid or missing CLI options.
	ErrBadArgs = errors.New("bad arguments")

	// ErrIOFailure covers open/stat/mmap failures.
	ErrIOFailure = errors.New("i/o failure")

	// ErrMalformedArchive covers a missing signature, a truncated record, a
	// ZIP64 sentinel without a matching extra-field sub-record, or a corrupt
	// extra-field chain.
	ErrMalformedArchive = errors.New("malformed archive")

	// ErrCorruptDeflate covers an inflater bitstream error. The validator
	// recovers from this locally as "not a match" and does not log it; it is
	// never a process-terminating error.
	ErrCorruptDeflate = errors.New("corrupt deflate stream")

	// ErrNoMatch is an informational, non-fatal outcome: the search space was
	// exhausted without finding a valid passphrase.
	ErrNoMatch = errors.New("no password found")
)
