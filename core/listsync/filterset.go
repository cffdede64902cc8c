package listsync

import (
	"net/url"
	"sort"
	"strings"
)

// FilterSet is the combination of user-selected query parameters driving a
// list fetch. Values may be empty; an empty value still reserves the filter's
// position so dependent-filter resets keep the set's shape stable.
type FilterSet struct {
	names  []string
	values map[string]string
}

func NewFilterSet() FilterSet {
	return FilterSet{values: make(map[string]string)}
}

func (fs *FilterSet) Set(name, value string) {
	if fs.values == nil {
		fs.values = make(map[string]string)
	}
	if _, ok := fs.values[name]; !ok {
		fs.names = append(fs.names, name)
	}
	fs.values[name] = value
}

func (fs FilterSet) Get(name string) string { return fs.values[name] }

func (fs FilterSet) IsEmpty() bool {
	for _, v := range fs.values {
		if v != "" {
			return false
		}
	}
	return true
}

func (fs FilterSet) Clone() FilterSet {
	clone := FilterSet{
		names:  append([]string(nil), fs.names...),
		values: make(map[string]string, len(fs.values)),
	}
	for k, v := range fs.values {
		clone.values[k] = v
	}
	return clone
}

// Values returns the non-empty filters as URL query values.
func (fs FilterSet) Values() url.Values {
	q := make(url.Values, len(fs.values))
	for name, value := range fs.values {
		if value != "" {
			q.Set(name, value)
		}
	}
	return q
}

// Fingerprint is a comparable serialization of the FilterSet used to detect
// outdated in-flight requests. Two sets holding the same pairs produce the
// same fingerprint regardless of the order the filters were set in.
func (fs FilterSet) Fingerprint() string {
	names := append([]string(nil), fs.names...)
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(fs.values[name]))
	}
	return b.String()
}

// Equal reports whether every filter name/value pair matches.
func (fs FilterSet) Equal(other FilterSet) bool {
	return fs.Fingerprint() == other.Fingerprint()
}
