package geo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type resolverFunc func(ctx context.Context, address string) (Coordinates, error)

func (f resolverFunc) Resolve(ctx context.Context, address string) (Coordinates, error) {
	return f(ctx, address)
}

func TestLocateResolved(t *testing.T) {
	r := resolverFunc(func(ctx context.Context, address string) (Coordinates, error) {
		return Coordinates{Latitude: 4.71, Longitude: -74.07}, nil
	})

	result := Locate(context.Background(), r, "Bogota", time.Second)
	require.True(t, result.Resolved())
	require.Equal(t, OutcomeResolved, result.Outcome)
	require.InDelta(t, 4.71, result.Coordinates.Latitude, 0.0001)
}

func TestLocateTimedOut(t *testing.T) {
	r := resolverFunc(func(ctx context.Context, address string) (Coordinates, error) {
		<-ctx.Done()
		return Coordinates{}, ctx.Err()
	})

	result := Locate(context.Background(), r, "Bogota", 10*time.Millisecond)
	require.False(t, result.Resolved())
	require.Equal(t, OutcomeTimedOut, result.Outcome)
}

func TestLocateDenied(t *testing.T) {
	r := resolverFunc(func(ctx context.Context, address string) (Coordinates, error) {
		return Coordinates{}, ErrDenied
	})

	result := Locate(context.Background(), r, "Bogota", time.Second)
	require.Equal(t, OutcomeDenied, result.Outcome)
	require.True(t, errors.Is(result.Err, ErrDenied))
}

func TestLocateUnsupported(t *testing.T) {
	result := Locate(context.Background(), nil, "Bogota", time.Second)
	require.Equal(t, OutcomeUnsupported, result.Outcome)

	r := resolverFunc(func(ctx context.Context, address string) (Coordinates, error) {
		return Coordinates{}, ErrUnsupported
	})
	result = Locate(context.Background(), r, "", time.Second)
	require.Equal(t, OutcomeUnsupported, result.Outcome)
}
