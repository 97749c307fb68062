package loader

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/ront3t/beers-table/internal/types"
)

// Draft is the shadow copy of a row while it is being edited. Known fields
// are typed; extension fields are kept as the strings the user typed.
type Draft struct {
	ID      int
	Name    string
	Price   string
	Image   string
	Average float64
	Reviews float64

	// Extra carries extension fields not edited yet, untouched.
	Extra map[string]any
	// Edited carries extension fields the user has changed.
	Edited map[string]string
}

func newDraft(b types.Beer) Draft {
	c := b.Clone()
	return Draft{
		ID:      c.ID,
		Name:    c.Name,
		Price:   c.Price,
		Image:   c.Image,
		Average: c.Rating.Average,
		Reviews: c.Rating.Reviews,
		Extra:   c.Extra,
	}
}

// Set assigns a field by its column name. The rating fields are coerced to
// numbers, everything else stays a string. No other validation happens.
func (d *Draft) Set(field, value string) error {
	switch field {
	case types.FieldID:
		return fmt.Errorf("%s: %w", field, ErrReadOnlyField)
	case types.FieldName:
		d.Name = value
	case types.FieldPrice:
		d.Price = value
	case types.FieldImage:
		d.Image = value
	case types.FieldRatingAverage:
		d.Average = toNumber(value)
	case types.FieldRatingReviews:
		d.Reviews = toNumber(value)
	default:
		if d.Edited == nil {
			d.Edited = make(map[string]string)
		}
		d.Edited[field] = value
	}
	return nil
}

// Value returns the current text of a field as an editor would show it.
func (d Draft) Value(field string) string {
	if v, ok := d.Edited[field]; ok {
		return v
	}
	return d.Beer().Field(field)
}

// Beer materializes the draft as a row.
func (d Draft) Beer() types.Beer {
	b := types.Beer{
		ID:     d.ID,
		Name:   d.Name,
		Price:  d.Price,
		Image:  d.Image,
		Rating: types.Rating{Average: d.Average, Reviews: d.Reviews},
	}
	if len(d.Extra) > 0 || len(d.Edited) > 0 {
		b.Extra = make(map[string]any, len(d.Extra)+len(d.Edited))
		for k, v := range d.Extra {
			b.Extra[k] = v
		}
		for k, v := range d.Edited {
			b.Extra[k] = v
		}
	}
	return b
}

// EditableFields lists the fields of d in editing order.
func (d Draft) EditableFields() []string {
	fields := []string{
		types.FieldName,
		types.FieldPrice,
		types.FieldRatingReviews,
		types.FieldRatingAverage,
		types.FieldImage,
	}
	for _, c := range d.Beer().Columns() {
		switch c {
		case types.FieldName, types.FieldPrice, types.FieldRating, types.FieldImage:
			continue
		}
		fields = append(fields, c)
	}
	return fields
}

// decimalLiteral is the decimal form Number() accepts. strconv.ParseFloat
// is wider: it takes "inf", "nan", hex floats and underscores.
var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// toNumber follows JavaScript Number(): blank is 0, 0x/0o/0b integers and
// the exact spelling Infinity are accepted, anything else unparseable is NaN.
func toNumber(s string) float64 {
	s = strings.TrimFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == '\uFEFF' })
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' {
		if base, ok := radixPrefix[s[1]]; ok {
			return radixInteger(s[2:], base)
		}
	}
	if !decimalLiteral.MatchString(s) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

var radixPrefix = map[byte]int{'x': 16, 'X': 16, 'o': 8, 'O': 8, 'b': 2, 'B': 2}

func radixInteger(digits string, base int) float64 {
	// big.Int would otherwise accept a sign after the prefix
	if digits[0] == '+' || digits[0] == '-' {
		return math.NaN()
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return math.NaN()
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return f
}

// BeginEdit puts the row with id into edit mode. A draft held for another
// row is discarded without saving.
func (l *Loader) BeginEdit(id int) error {
	idx := l.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("edit %d: %w", id, ErrRowNotFound)
	}
	l.editing = true
	l.editID = id
	l.draft = newDraft(l.items[idx])
	return nil
}

// UpdateField changes one field of the draft. The accumulated rows are
// untouched until CommitEdit.
func (l *Loader) UpdateField(field, value string) error {
	if !l.editing {
		return ErrNotEditing
	}
	return l.draft.Set(field, value)
}

// CommitEdit replaces every row carrying the edited id with the draft and
// leaves edit mode.
func (l *Loader) CommitEdit() error {
	if !l.editing {
		return ErrNotEditing
	}
	updated := l.draft.Beer()
	for i := range l.items {
		if l.items[i].ID == l.editID {
			l.items[i] = updated.Clone()
		}
	}
	l.CancelEdit()
	return nil
}

// CancelEdit leaves edit mode, dropping the draft.
func (l *Loader) CancelEdit() {
	l.editing = false
	l.editID = 0
	l.draft = Draft{}
}

// DeleteRow removes every row carrying id. It reports whether anything was
// removed. Deleting the row under edit also ends edit mode.
func (l *Loader) DeleteRow(id int) bool {
	kept := make([]types.Beer, 0, len(l.items))
	removed := false
	for _, b := range l.items {
		if b.ID == id {
			removed = true
			continue
		}
		kept = append(kept, b)
	}
	l.items = kept
	if removed && l.editing && l.editID == id {
		l.CancelEdit()
	}
	return removed
}

// Editing returns the id of the row in edit mode.
func (l *Loader) Editing() (int, bool) { return l.editID, l.editing }

// Draft returns the live shadow state of the row in edit mode.
func (l *Loader) Draft() Draft { return l.draft }

func (l *Loader) indexOf(id int) int {
	for i, b := range l.items {
		if b.ID == id {
			return i
		}
	}
	return -1
}
