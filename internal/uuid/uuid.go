// Package uuid wraps google/uuid so that IDs can be bound from path and
// query parameters with gin.
package uuid

import (
	"strings"

	google_uuid "github.com/google/uuid"
)

// UUID is a google/uuid UUID that implements gin's binding.BindUnmarshaler.
type UUID struct {
	google_uuid.UUID
}

var Nil UUID

// UnmarshalParam parses the parameter with uuid.Parse. An empty
// parameter is the Nil UUID.
func (u *UUID) UnmarshalParam(p string) error {
	if p == "" {
		*u = Nil
		return nil
	}

	parsed, err := google_uuid.Parse(p)
	if err != nil {
		return err
	}

	*u = UUID{parsed}
	return nil
}

// List is a comma separated list of UUIDs in a single parameter.
type List []google_uuid.UUID

// UnmarshalParam parses every comma separated element with uuid.Parse.
func (l *List) UnmarshalParam(p string) error {
	*l = nil
	if p == "" {
		return nil
	}

	for _, s := range strings.Split(p, ",") {
		parsed, err := google_uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		*l = append(*l, parsed)
	}

	return nil
}
