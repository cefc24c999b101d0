package header

import "strings"

// Entry is one name/value pair. Names keep the spelling they were added
// with; matching is case-insensitive.
type Entry struct {
	Name  string
	Value string
}

// Headers is an ordered multimap of HTTP header fields. Insertion order
// is preserved for serialization and duplicate names are allowed, so
// fields like Set-Cookie survive intact.
type Headers struct {
	entries []Entry
}

// New returns empty Headers.
func New() *Headers {
	return &Headers{}
}

// FromMap builds Headers from a plain map. Iteration order of maps is
// undefined, so keys are applied in sorted-by-insertion order only as
// far as the caller's map allows; use Add for order-sensitive fields.
func FromMap(m map[string]string) *Headers {
	h := New()
	for k, v := range m {
		h.Set(k, v)
	}
	return h
}

// Add appends a field, keeping any existing fields with the same name.
func (h *Headers) Add(name, value string) {
	h.entries = append(h.entries, Entry{Name: name, Value: value})
}

// Set replaces every field matching name with a single field. The new
// field takes the position of the first match, or is appended when the
// name was absent.
func (h *Headers) Set(name, value string) {
	replaced := false
	kept := h.entries[:0]
	for _, e := range h.entries {
		if strings.EqualFold(e.Name, name) {
			if !replaced {
				kept = append(kept, Entry{Name: name, Value: value})
				replaced = true
			}
			continue
		}
		kept = append(kept, e)
	}
	h.entries = kept
	if !replaced {
		h.entries = append(h.entries, Entry{Name: name, Value: value})
	}
}

// Get returns the value of the first field matching name, or "".
func (h *Headers) Get(name string) string {
	if h == nil {
		return ""
	}
	for _, e := range h.entries {
		if strings.EqualFold(e.Name, name) {
			return e.Value
		}
	}
	return ""
}

// Values returns every value for name, in insertion order.
func (h *Headers) Values(name string) []string {
	if h == nil {
		return nil
	}
	var vv []string
	for _, e := range h.entries {
		if strings.EqualFold(e.Name, name) {
			vv = append(vv, e.Value)
		}
	}
	return vv
}

// Has reports whether at least one field matches name.
func (h *Headers) Has(name string) bool {
	if h == nil {
		return false
	}
	for _, e := range h.entries {
		if strings.EqualFold(e.Name, name) {
			return true
		}
	}
	return false
}

// Del removes every field matching name.
func (h *Headers) Del(name string) {
	kept := h.entries[:0]
	for _, e := range h.entries {
		if !strings.EqualFold(e.Name, name) {
			kept = append(kept, e)
		}
	}
	h.entries = kept
}

// Len returns the number of fields.
func (h *Headers) Len() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}

// Entries returns the fields in insertion order. The slice is a copy;
// mutating it does not affect h.
func (h *Headers) Entries() []Entry {
	if h == nil {
		return nil
	}
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Clone returns a deep copy.
func (h *Headers) Clone() *Headers {
	if h == nil {
		return New()
	}
	c := &Headers{entries: make([]Entry, len(h.entries))}
	copy(c.entries, h.entries)
	return c
}
