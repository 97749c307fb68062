package loader

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ront3t/beers-table/internal/types"
)

// collection builds n rows with ids 1..n.
func collection(n int) []types.Beer {
	out := make([]types.Beer, n)
	for i := range out {
		out[i] = types.Beer{
			ID:     i + 1,
			Name:   "beer",
			Price:  "$1.00",
			Rating: types.Rating{Average: 4, Reviews: 10},
		}
	}
	return out
}

// window mimics the proxy: upstream[offset:offset+limit], clamped.
func window(all []types.Beer, req Request) []types.Beer {
	lo := min(req.Offset, len(all))
	hi := min(req.Offset+req.Limit, len(all))
	return all[lo:hi]
}

func TestLoader_InitialState(t *testing.T) {
	l := New(0)
	assert.Equal(t, DefaultPageSize, l.PageSize())
	assert.True(t, l.HasMore())
	assert.False(t, l.Loading())
	assert.Empty(t, l.Items())
	_, editing := l.Editing()
	assert.False(t, editing)
}

func TestLoader_SelectCategoryResets(t *testing.T) {
	l := New(10)
	req := l.SelectCategory(types.CategoryAle)
	require.True(t, l.Resolve(req, collection(5), nil))
	require.False(t, l.HasMore())
	require.Equal(t, 5, l.Len())

	req = l.SelectCategory(types.CategoryStouts)
	assert.Equal(t, Request{Token: req.Token, Category: "stouts", Limit: 10, Offset: 0, Reset: true}, req)
	assert.Empty(t, l.Items(), "items must be cleared before the fetch resolves")
	assert.Equal(t, 0, l.Page())
	assert.True(t, l.HasMore())
	assert.True(t, l.Loading())
	assert.Equal(t, "stouts", l.Category())
}

func TestLoader_PagesThroughCollection(t *testing.T) {
	all := collection(25)
	l := New(10)

	req := l.SelectCategory(types.CategoryAle)
	var counts, offsets []int
	for {
		page := window(all, req)
		offsets = append(offsets, req.Offset)
		counts = append(counts, len(page))
		require.True(t, l.Resolve(req, page, nil))

		next, ok := l.LoadMore()
		if !ok {
			break
		}
		req = next
	}

	assert.Equal(t, []int{0, 10, 20}, offsets)
	assert.Equal(t, []int{10, 10, 5}, counts)
	assert.False(t, l.HasMore())
	assert.Equal(t, 25, l.Len())
	assert.Equal(t, 2, l.Page())
	for i, b := range l.Items() {
		assert.Equal(t, i+1, b.ID)
	}
}

func TestLoader_HasMoreTracksLastResolvedFetch(t *testing.T) {
	l := New(3)
	req := l.SelectCategory(types.CategoryAle)
	l.Resolve(req, collection(3), nil)
	assert.True(t, l.HasMore(), "full page leaves more to load")

	req, ok := l.LoadMore()
	require.True(t, ok)
	l.Resolve(req, collection(2), nil)
	assert.False(t, l.HasMore(), "short page ends the category")

	req = l.SelectCategory(types.CategoryAle)
	l.Resolve(req, nil, nil)
	assert.False(t, l.HasMore(), "empty page ends the category")
}

func TestLoader_LoadMoreSuppressed(t *testing.T) {
	t.Run("while loading", func(t *testing.T) {
		l := New(10)
		l.SelectCategory(types.CategoryAle)
		require.True(t, l.Loading())

		_, ok := l.LoadMore()
		assert.False(t, ok)
		assert.Equal(t, 0, l.Page())
	})

	t.Run("when exhausted", func(t *testing.T) {
		l := New(10)
		req := l.SelectCategory(types.CategoryAle)
		l.Resolve(req, collection(4), nil)
		require.False(t, l.HasMore())

		_, ok := l.LoadMore()
		assert.False(t, ok)
		assert.False(t, l.Loading())
	})
}

func TestLoader_ResetFailureClearsItems(t *testing.T) {
	l := New(10)
	req := l.SelectCategory(types.CategoryAle)
	l.Resolve(req, collection(10), nil)

	req = l.SelectCategory(types.CategoryAle)
	var applied bool
	require.NotPanics(t, func() {
		applied = l.Resolve(req, nil, errors.New("upstream down"))
	})
	assert.True(t, applied)
	assert.Empty(t, l.Items())
	assert.False(t, l.Loading())
	assert.True(t, l.HasMore(), "hasMore is left unchanged on failure")
	assert.EqualError(t, l.LastError(), "upstream down")
}

func TestLoader_AppendFailureKeepsItemsAndRetriesWindow(t *testing.T) {
	all := collection(30)
	l := New(10)
	req := l.SelectCategory(types.CategoryAle)
	l.Resolve(req, window(all, req), nil)

	req, ok := l.LoadMore()
	require.True(t, ok)
	require.Equal(t, 10, req.Offset)
	l.Resolve(req, nil, errors.New("timeout"))

	assert.Equal(t, 10, l.Len())
	assert.True(t, l.HasMore())
	assert.False(t, l.Loading())
	require.Error(t, l.LastError())

	retry, ok := l.LoadMore()
	require.True(t, ok)
	assert.Equal(t, 10, retry.Offset, "retry re-requests the failed window")
	l.Resolve(retry, window(all, retry), nil)
	assert.Equal(t, 20, l.Len())
	assert.NoError(t, l.LastError())
}

func TestLoader_StaleResponseDiscarded(t *testing.T) {
	l := New(10)
	aleReq := l.SelectCategory(types.CategoryAle)
	stoutReq := l.SelectCategory(types.CategoryStouts)

	assert.False(t, l.Resolve(aleReq, collection(10), nil), "response for the old category must be dropped")
	assert.Empty(t, l.Items())
	assert.True(t, l.Loading(), "the current fetch is still in flight")

	assert.True(t, l.Resolve(stoutReq, collection(3), nil))
	assert.Equal(t, 3, l.Len())
	assert.False(t, l.Loading())

	assert.False(t, l.Resolve(stoutReq, collection(10), nil), "a request resolves at most once")
	assert.False(t, l.Resolve(Request{}, collection(1), nil))
	assert.Equal(t, 3, l.Len())
}

func TestLoader_DuplicatesAreKept(t *testing.T) {
	l := New(2)
	req := l.SelectCategory(types.CategoryAle)
	l.Resolve(req, collection(2), nil)
	req, _ = l.LoadMore()
	l.Resolve(req, collection(2), nil)
	assert.Equal(t, 4, l.Len())
}

func TestLoader_EditCommit(t *testing.T) {
	l := New(10)
	req := l.SelectCategory(types.CategoryAle)
	rows := collection(8)
	rows[6].Extra = map[string]any{"brewery": "Acme"}
	l.Resolve(req, rows, nil)
	before := l.Items()[6].Clone()

	require.NoError(t, l.BeginEdit(7))
	id, editing := l.Editing()
	require.True(t, editing)
	require.Equal(t, 7, id)

	require.NoError(t, l.UpdateField(types.FieldName, "X"))
	assert.Equal(t, "beer", l.Items()[6].Name, "draft edits must not touch the rows")
	assert.Equal(t, "X", l.Draft().Name)

	require.NoError(t, l.CommitEdit())
	_, editing = l.Editing()
	assert.False(t, editing)

	after := l.Items()[6]
	assert.Equal(t, "X", after.Name)
	before.Name = "X"
	assert.Equal(t, before, after, "all other fields unchanged")

	assert.True(t, l.DeleteRow(7))
	for _, b := range l.Items() {
		assert.NotEqual(t, 7, b.ID)
	}
	assert.Equal(t, 7, l.Len())
	assert.False(t, l.DeleteRow(7))
}

func TestLoader_EditNumericCoercion(t *testing.T) {
	l := New(10)
	req := l.SelectCategory(types.CategoryAle)
	l.Resolve(req, collection(1), nil)
	require.NoError(t, l.BeginEdit(1))

	require.NoError(t, l.UpdateField(types.FieldRatingAverage, " 3.5 "))
	require.NoError(t, l.UpdateField(types.FieldRatingReviews, ""))
	require.NoError(t, l.UpdateField(types.FieldPrice, "12"))
	require.NoError(t, l.UpdateField("abv", "5.2"))

	d := l.Draft()
	assert.InDelta(t, 3.5, d.Average, 1e-9)
	assert.Zero(t, d.Reviews)
	assert.Equal(t, "12", d.Price)
	assert.Equal(t, "5.2", d.Edited["abv"], "extension fields stay strings")

	require.NoError(t, l.UpdateField(types.FieldRatingReviews, "0x1F"))
	assert.Equal(t, float64(31), l.Draft().Reviews)

	require.NoError(t, l.UpdateField(types.FieldRatingReviews, "lots"))
	assert.True(t, math.IsNaN(l.Draft().Reviews), "malformed numbers are accepted as NaN")

	require.NoError(t, l.CommitEdit())
	got := l.Items()[0]
	assert.Equal(t, "5.2", got.Extra["abv"])
	assert.True(t, math.IsNaN(got.Rating.Reviews))
}

func TestToNumber(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"  \t\n", 0},
		{"42", 42},
		{" -3.5 ", -3.5},
		{"+.5", 0.5},
		{"5.", 5},
		{"1e3", 1000},
		{"1E-2", 0.01},
		{"1e400", math.Inf(1)},
		{"0x10", 16},
		{"0XfF", 255},
		{"0o17", 15},
		{"0b101", 5},
		{"Infinity", math.Inf(1)},
		{"+Infinity", math.Inf(1)},
		{"-Infinity", math.Inf(-1)},
		{"inf", nan},
		{"Inf", nan},
		{"infinity", nan},
		{"NaN", nan},
		{"0x", nan},
		{"0x-1", nan},
		{"-0x10", nan},
		{"0b102", nan},
		{"0x1p2", nan},
		{"1_000", nan},
		{"1e", nan},
		{"12abc", nan},
		{"lots", nan},
	}
	for _, tt := range tests {
		got := toNumber(tt.in)
		if math.IsNaN(tt.want) {
			assert.True(t, math.IsNaN(got), "toNumber(%q) = %v, want NaN", tt.in, got)
			continue
		}
		assert.Equal(t, tt.want, got, "toNumber(%q)", tt.in)
	}
}

func TestLoader_EditErrors(t *testing.T) {
	l := New(10)
	req := l.SelectCategory(types.CategoryAle)
	l.Resolve(req, collection(3), nil)

	assert.ErrorIs(t, l.UpdateField(types.FieldName, "x"), ErrNotEditing)
	assert.ErrorIs(t, l.CommitEdit(), ErrNotEditing)
	assert.ErrorIs(t, l.BeginEdit(99), ErrRowNotFound)

	require.NoError(t, l.BeginEdit(1))
	assert.ErrorIs(t, l.UpdateField(types.FieldID, "5"), ErrReadOnlyField)
}

func TestLoader_BeginEditDiscardsPreviousDraft(t *testing.T) {
	l := New(10)
	req := l.SelectCategory(types.CategoryAle)
	l.Resolve(req, collection(3), nil)

	require.NoError(t, l.BeginEdit(1))
	require.NoError(t, l.UpdateField(types.FieldName, "unsaved"))
	require.NoError(t, l.BeginEdit(2))

	id, _ := l.Editing()
	assert.Equal(t, 2, id)
	assert.Equal(t, "beer", l.Draft().Name)
	require.NoError(t, l.CommitEdit())
	assert.Equal(t, "beer", l.Items()[0].Name, "the abandoned draft is never saved")
}

func TestLoader_DeleteRowUnderEditEndsEdit(t *testing.T) {
	l := New(10)
	req := l.SelectCategory(types.CategoryAle)
	l.Resolve(req, collection(3), nil)

	require.NoError(t, l.BeginEdit(2))
	require.True(t, l.DeleteRow(2))
	_, editing := l.Editing()
	assert.False(t, editing)
	assert.Equal(t, 2, l.Len())
}

func TestLoader_CategorySwitchDropsEdit(t *testing.T) {
	l := New(10)
	req := l.SelectCategory(types.CategoryAle)
	l.Resolve(req, collection(3), nil)
	require.NoError(t, l.BeginEdit(1))

	l.SelectCategory(types.CategoryStouts)
	_, editing := l.Editing()
	assert.False(t, editing)
}

func TestDraft_EditableFields(t *testing.T) {
	d := newDraft(types.Beer{Extra: map[string]any{"abv": 5.0}})
	assert.Equal(t, []string{"name", "price", "rating.reviews", "rating.average", "image", "abv"}, d.EditableFields())
	assert.Equal(t, "5", d.Value("abv"))
	require.NoError(t, d.Set("abv", "6%"))
	assert.Equal(t, "6%", d.Value("abv"))
}
