package types

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Beer is a single row of an upstream beer collection.
type Beer struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Price  string `json:"price"`
	Rating Rating `json:"rating"`
	Image  string `json:"image"`

	// Extra holds any upstream field not covered above, keyed by its JSON name.
	Extra map[string]any `json:"-"`
}

// Rating is the nested review summary of a beer.
type Rating struct {
	Average float64 `json:"average"`
	Reviews float64 `json:"reviews"`
}

// BeersResponse is the client-side view of the proxy's success payload.
type BeersResponse struct {
	Beers []Beer `json:"beers"`
}

// ErrorResponse is the proxy's fixed failure payload.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Known column names, in upstream order.
const (
	FieldID            = "id"
	FieldName          = "name"
	FieldPrice         = "price"
	FieldRating        = "rating"
	FieldRatingAverage = "rating.average"
	FieldRatingReviews = "rating.reviews"
	FieldImage         = "image"
)

var knownColumns = []string{FieldPrice, FieldName, FieldRating, FieldImage}

// FallbackColumns is the column set used when there are no rows to derive it from.
var FallbackColumns = []string{FieldName, FieldPrice, FieldRating, FieldImage}

// Default categories offered by the client.
const (
	CategoryAle    = "ale"
	CategoryStouts = "stouts"
)

// UnmarshalJSON decodes the known fields and keeps every other key in Extra.
// Decoding is lenient since the proxy forwards elements unchecked: text
// fields accept any scalar, numeric fields fall back to zero, and a value
// that is not an object decodes to an empty row.
func (b *Beer) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*b = Beer{}
		return nil
	}
	var out Beer
	for k, v := range raw {
		switch k {
		case FieldID:
			out.ID = int(lenientNumber(v))
		case FieldName:
			out.Name = lenientString(v)
		case FieldPrice:
			out.Price = lenientString(v)
		case FieldImage:
			out.Image = lenientString(v)
		case FieldRating:
			var r map[string]json.RawMessage
			if json.Unmarshal(v, &r) == nil {
				out.Rating.Average = lenientNumber(r["average"])
				out.Rating.Reviews = lenientNumber(r["reviews"])
			}
		default:
			var val any
			if err := json.Unmarshal(v, &val); err != nil {
				return fmt.Errorf("decode field %q: %w", k, err)
			}
			if out.Extra == nil {
				out.Extra = make(map[string]any)
			}
			out.Extra[k] = val
		}
	}
	*b = out
	return nil
}

func lenientNumber(v json.RawMessage) float64 {
	var f float64
	if json.Unmarshal(v, &f) != nil {
		return 0
	}
	return f
}

func lenientString(v json.RawMessage) string {
	var val any
	if json.Unmarshal(v, &val) != nil {
		return ""
	}
	switch val := val.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return FormatNumber(val)
	default:
		return string(v)
	}
}

// MarshalJSON encodes the known fields merged with Extra.
func (b Beer) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 5+len(b.Extra))
	for k, v := range b.Extra {
		out[k] = v
	}
	out[FieldID] = b.ID
	out[FieldName] = b.Name
	out[FieldPrice] = b.Price
	out[FieldRating] = b.Rating
	out[FieldImage] = b.Image
	return json.Marshal(out)
}

// Clone returns a copy that shares no mutable state with b.
func (b Beer) Clone() Beer {
	c := b
	if b.Extra != nil {
		c.Extra = make(map[string]any, len(b.Extra))
		for k, v := range b.Extra {
			c.Extra[k] = v
		}
	}
	return c
}

// Columns returns the display columns for this row: known fields first,
// then extension fields sorted by name. The id is never a column.
func (b Beer) Columns() []string {
	cols := make([]string, 0, len(knownColumns)+len(b.Extra))
	cols = append(cols, knownColumns...)
	extra := make([]string, 0, len(b.Extra))
	for k := range b.Extra {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	return append(cols, extra...)
}

// Field returns the display value of a column.
func (b Beer) Field(name string) string {
	switch name {
	case FieldID:
		return fmt.Sprintf("%d", b.ID)
	case FieldName:
		return b.Name
	case FieldPrice:
		return b.Price
	case FieldImage:
		return b.Image
	case FieldRatingAverage:
		return FormatNumber(b.Rating.Average)
	case FieldRatingReviews:
		return FormatNumber(b.Rating.Reviews)
	case FieldRating:
		return fmt.Sprintf("Reviews: %s  Avg: %s",
			FormatNumber(b.Rating.Reviews), FormatNumber(b.Rating.Average))
	}
	v, ok := b.Extra[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if f, ok := v.(float64); ok {
		return FormatNumber(f)
	}
	enc, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(enc)
}

// FormatNumber renders a float the way a JSON number prints: integers
// without a fractional part.
func FormatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
