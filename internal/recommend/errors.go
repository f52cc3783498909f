package recommend

import "errors"

var (
	// ErrNoSignal indicates the user has no liked ids for the requested
	// media type. Single-type callers map this to a not-found outcome; the
	// multi-media view absorbs it via the trending fallback instead.
	ErrNoSignal = errors.New("no liked signal for media type")

	// ErrUpstream indicates a catalog or completion call failed and no
	// other source could produce results.
	ErrUpstream = errors.New("upstream source unavailable")

	// ErrParse indicates the completion text could not be parsed into
	// recommendation titles and no other source could produce results.
	ErrParse = errors.New("failed to parse completion")
)
