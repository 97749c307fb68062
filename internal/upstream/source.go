// Package upstream provides the windowed data sources behind the pagination
// proxy.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrUpstreamStatus is returned when the upstream answers with a non-2xx status.
	ErrUpstreamStatus = errors.New("upstream returned non-success status")

	// ErrUpstreamFormat is returned when the upstream body is not a JSON array.
	ErrUpstreamFormat = errors.New("upstream returned invalid data format")

	// ErrUnknownCategory is returned by sources that hold no copy of a category.
	ErrUnknownCategory = errors.New("unknown category")
)

// Source returns one window of a category's collection. Elements are the
// upstream's JSON values, byte for byte.
type Source interface {
	Window(ctx context.Context, category string, w Window) ([]json.RawMessage, error)
}

// Collector returns the full, unpaginated collection of a category.
type Collector interface {
	Collection(ctx context.Context, category string) ([]json.RawMessage, error)
}

// Window is a (limit, offset) pair selecting a contiguous range of a collection.
type Window struct {
	Limit  int
	Offset int
}

// Bounds returns the [lo, hi) indices of w within a collection of n rows.
func (w Window) Bounds(n int) (lo, hi int) {
	lo = max(0, min(w.Offset, n))
	// compare against the remainder so huge limits cannot overflow
	hi = lo + max(0, min(w.Limit, n-lo))
	return lo, hi
}

// Slice applies w to all. The result is never nil.
func Slice[T any](all []T, w Window) []T {
	lo, hi := w.Bounds(len(all))
	out := make([]T, hi-lo)
	copy(out, all[lo:hi])
	return out
}

// sliceSource turns a Collector into a Source by fetching everything and
// slicing locally. Cost is linear in the collection size per request.
type sliceSource struct {
	c Collector
}

// FromCollector adapts c to a Source that slices the full collection.
func FromCollector(c Collector) Source {
	return sliceSource{c: c}
}

func (s sliceSource) Window(ctx context.Context, category string, w Window) ([]json.RawMessage, error) {
	all, err := s.c.Collection(ctx, category)
	if err != nil {
		return nil, err
	}
	return Slice(all, w), nil
}
