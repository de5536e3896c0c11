package profiles

import (
	"fmt"
	"time"
)

// Attributes is the scalar part of a profile's data object.
// A key that is present with an empty string is a present value.
type Attributes map[string]any

// Has reports whether key is present with a non-null value.
func (a Attributes) Has(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

// String returns the value of key as a string. ok is false when the key is
// absent or null; non-string scalars are formatted.
func (a Attributes) String(key string) (string, bool) {
	v, ok := a[key]
	if !ok || v == nil {
		return "", false
	}
	if s, isString := v.(string); isString {
		return s, true
	}
	return fmt.Sprint(v), true
}

// Set stores a string value.
func (a Attributes) Set(key, value string) {
	a[key] = value
}

// SetOptional stores value when ok, otherwise removes key.
func (a Attributes) SetOptional(key, value string, ok bool) {
	if ok {
		a[key] = value
		return
	}
	delete(a, key)
}

// Time parses the value of key as a timestamp.
func (a Attributes) Time(key string) (time.Time, bool) {
	s, ok := a.String(key)
	if !ok {
		return time.Time{}, false
	}
	t, err := ParseTime(s)
	if err != nil {
		return time.Time{}, false
	}
	return t.Time, true
}

// Item is one entry of a list-valued field (child, address, order, cart, event).
type Item map[string]any

// Item keys managed by the merge engine.
const (
	ItemID          = "id"
	ItemSource      = "source"
	ItemDateOfBirth = "dateOfBirth"
	ItemDueDate     = "dueDate"
	ItemIsFirstBaby = "isFirstBaby"
)

// ID returns the stable id of the item.
func (it Item) ID() (string, bool) {
	v, ok := it[ItemID]
	if !ok || v == nil {
		return "", false
	}
	if s, isString := v.(string); isString {
		return s, true
	}
	return fmt.Sprint(v), true
}

// Source returns the source tag of the item.
func (it Item) Source() string {
	s, _ := it[ItemSource].(string)
	return s
}

// Tag sets the source tag unless one is already present.
func (it Item) Tag(source string) {
	if it.Source() != "" {
		return
	}
	it[ItemSource] = source
}

// ChildDate returns the date identifying a child: dateOfBirth, else dueDate.
func (it Item) ChildDate() (time.Time, bool) {
	for _, key := range []string{ItemDateOfBirth, ItemDueDate} {
		s, ok := it[key].(string)
		if !ok || s == "" {
			continue
		}
		if t, err := ParseTime(s); err == nil {
			return t.Time, true
		}
	}
	return time.Time{}, false
}

// Clone returns a deep copy of the item.
func (it Item) Clone() Item {
	if it == nil {
		return nil
	}
	return Item(cloneMap(it))
}

// CloneValue deep-copies a decoded JSON value.
func CloneValue(v any) any {
	return cloneValue(v)
}

// CloneMap deep-copies a decoded JSON object.
func CloneMap(m map[string]any) map[string]any {
	return cloneMap(m)
}

// CloneItems deep-copies a list of items.
func CloneItems(items []Item) []Item {
	return cloneItems(items)
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Attributes:
		return Attributes(cloneMap(t))
	case Item:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []Item:
		return cloneItems(t)
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
