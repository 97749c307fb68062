// Package loader implements the incremental list loader behind the beer
// table: a paginated, append-only view over one category at a time plus the
// local edit and delete state for its rows.
//
// A Loader performs no I/O. Every operation that needs data returns a
// Request; the caller runs the fetch and hands the outcome back to Resolve.
// All methods must be called from a single goroutine.
package loader

import (
	"errors"
	"log/slog"

	"github.com/ront3t/beers-table/internal/types"
)

// DefaultPageSize is the window size used when none is configured.
const DefaultPageSize = 10

var (
	// ErrNotEditing is returned by edit operations when no row is in edit mode.
	ErrNotEditing = errors.New("no row is being edited")

	// ErrRowNotFound is returned when an id does not match any accumulated row.
	ErrRowNotFound = errors.New("row not found")

	// ErrReadOnlyField is returned when an edit targets the row id.
	ErrReadOnlyField = errors.New("field is read-only")
)

// Request describes one windowed fetch issued by the loader.
type Request struct {
	Token    uint64
	Category string
	Limit    int
	Offset   int
	Reset    bool // replace accumulated rows instead of appending
}

// Loader holds the accumulated rows and pagination state of one table session.
type Loader struct {
	pageSize int

	items    []types.Beer
	category string
	page     int
	loading  bool
	hasMore  bool
	lastErr  error

	// token of the fetch whose result is still wanted; 0 = none in flight
	pending uint64
	nextTok uint64

	editing bool
	editID  int
	draft   Draft
}

// New creates a loader that fetches pageSize rows per window.
func New(pageSize int) *Loader {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Loader{
		pageSize: pageSize,
		hasMore:  true,
	}
}

// SelectCategory resets the session to category and returns the request for
// its first window. Selecting the active category again refreshes it.
//
// Any fetch still in flight for the previous session is superseded: its
// result will be discarded by Resolve.
func (l *Loader) SelectCategory(category string) Request {
	l.category = category
	l.items = nil
	l.page = 0
	l.hasMore = true
	l.lastErr = nil
	l.CancelEdit()
	return l.issue(0, true)
}

// LoadMore advances to the next window. It returns false, issuing nothing,
// while a fetch is in flight or once the category is exhausted.
func (l *Loader) LoadMore() (Request, bool) {
	if l.loading || !l.hasMore {
		return Request{}, false
	}
	l.page++
	return l.issue(l.page*l.pageSize, false), true
}

func (l *Loader) issue(offset int, reset bool) Request {
	l.nextTok++
	l.pending = l.nextTok
	l.loading = true
	return Request{
		Token:    l.pending,
		Category: l.category,
		Limit:    l.pageSize,
		Offset:   offset,
		Reset:    reset,
	}
}

// Resolve applies the outcome of req. It reports whether the result was
// applied; results of superseded requests are dropped.
func (l *Loader) Resolve(req Request, beers []types.Beer, err error) bool {
	if req.Token == 0 || req.Token != l.pending {
		slog.Debug("discarding stale page",
			"category", req.Category,
			"offset", req.Offset,
			"token", req.Token,
			"pending", l.pending,
		)
		return false
	}
	l.pending = 0
	l.loading = false

	if err != nil {
		l.lastErr = err
		slog.Error("fetch beers",
			"category", req.Category,
			"offset", req.Offset,
			"reset", req.Reset,
			"error", err,
		)
		if req.Reset {
			l.items = nil
		} else if l.page > 0 {
			// retry the same window on the next LoadMore
			l.page--
		}
		return true
	}

	l.lastErr = nil
	if req.Reset {
		l.items = append([]types.Beer(nil), beers...)
	} else {
		l.items = append(l.items, beers...)
	}
	l.hasMore = len(beers) == req.Limit
	slog.Debug("page loaded",
		"category", req.Category,
		"offset", req.Offset,
		"count", len(beers),
		"total", len(l.items),
		"has_more", l.hasMore,
	)
	return true
}

// Items returns the accumulated rows in arrival order.
func (l *Loader) Items() []types.Beer { return l.items }

// Len returns the number of accumulated rows.
func (l *Loader) Len() int { return len(l.items) }

// Loading reports whether a fetch is in flight.
func (l *Loader) Loading() bool { return l.loading }

// HasMore reports whether further windows may exist.
func (l *Loader) HasMore() bool { return l.hasMore }

// Category returns the active category.
func (l *Loader) Category() string { return l.category }

// Page returns the 0-based index of the last requested window.
func (l *Loader) Page() int { return l.page }

// PageSize returns the window size.
func (l *Loader) PageSize() int { return l.pageSize }

// LastError returns the error of the most recent failed fetch, cleared by
// the next successful one.
func (l *Loader) LastError() error { return l.lastErr }
