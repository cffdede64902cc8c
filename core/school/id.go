package school

import (
	"strconv"
	"strings"
)

// ID identifies a record. Server-assigned ids are the backend's integer
// primary keys carried as strings; client-created records hold a synthetic
// "pending-" id until reconciled with the server record.
type ID string

const pendingPrefix = "pending-"

func (id ID) String() string { return string(id) }

// Pending reports whether the id is a synthetic client-side tag rather than
// a server identifier.
func (id ID) Pending() bool { return strings.HasPrefix(string(id), pendingPrefix) }

// MarshalJSON writes numeric ids as JSON numbers, the form the backend
// expects in reference fields.
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return []byte(strconv.Quote(string(id))), nil
}

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *ID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		*id = ID(unquoted)
		return nil
	}
	if s == "null" {
		*id = ""
		return nil
	}
	*id = ID(s)
	return nil
}
