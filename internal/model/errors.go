package model

import (
	"errors"
	"fmt"
)

// Error taxonomy. Fetch and malformed-input failures abort one audit
// invocation; detector and probe failures stay local to their unit; an
// unresolvable weight version aborts aggregation because a silent default
// would break score comparability across runs.

// FetchError means the content source was unreachable, blocked, or empty
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ErrMalformedInput means no usable body text remained after normalization
var ErrMalformedInput = errors.New("no usable text content after normalization")

// WeightVersionError means the requested weight table does not exist
type WeightVersionError struct {
	Version string
}

func (e *WeightVersionError) Error() string {
	return fmt.Sprintf("unresolvable weight version %q", e.Version)
}

// ProbeError is a per-probe failure; retryable ones are backed off and
// retried up to a bounded attempt count, then recorded as a failed
// observation instead of failing the batch.
type ProbeError struct {
	Platform  string
	Retryable bool
	Err       error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Platform, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a probe failure worth another attempt
func IsRetryable(err error) bool {
	var pe *ProbeError
	return errors.As(err, &pe) && pe.Retryable
}
