package geo

import (
	"context"
	"errors"
	"time"
)

// Outcome classifies the result of a location lookup.
type Outcome string

const (
	OutcomeResolved    Outcome = "resolved"
	OutcomeDenied      Outcome = "denied"
	OutcomeTimedOut    Outcome = "timed_out"
	OutcomeUnsupported Outcome = "unsupported"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Result is the typed outcome of a geolocation request. Coordinates is only
// meaningful when Outcome is OutcomeResolved.
type Result struct {
	Outcome     Outcome
	Coordinates Coordinates
	Err         error
}

// Resolved reports whether the lookup produced usable coordinates.
func (r Result) Resolved() bool {
	return r.Outcome == OutcomeResolved
}

var (
	// ErrDenied indicates the upstream refused to serve the lookup.
	ErrDenied = errors.New("geo: lookup denied")
	// ErrUnsupported indicates the query cannot be geocoded at all.
	ErrUnsupported = errors.New("geo: query not geocodable")
)

// Resolver turns a free-form address into coordinates.
type Resolver interface {
	Resolve(ctx context.Context, address string) (Coordinates, error)
}

// Locate runs the resolver under an explicit timeout and converts the error
// surface into a typed Result. The context controls cancellation; the timeout
// bounds the wait even when the parent context has no deadline.
func Locate(ctx context.Context, r Resolver, address string, timeout time.Duration) Result {
	if r == nil {
		return Result{Outcome: OutcomeUnsupported, Err: ErrUnsupported}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	coords, err := r.Resolve(ctx, address)
	switch {
	case err == nil:
		return Result{Outcome: OutcomeResolved, Coordinates: coords}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return Result{Outcome: OutcomeTimedOut, Err: err}
	case errors.Is(err, ErrDenied):
		return Result{Outcome: OutcomeDenied, Err: err}
	case errors.Is(err, ErrUnsupported):
		return Result{Outcome: OutcomeUnsupported, Err: err}
	default:
		return Result{Outcome: OutcomeUnsupported, Err: err}
	}
}
