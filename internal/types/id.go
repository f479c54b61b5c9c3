// README: Identifier type shared by rides, drivers, vehicles and organisations.
package types

import "github.com/google/uuid"

type ID string

func NewID() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string {
	return string(id)
}

// Ptr returns a pointer to a copy of id.
func (id ID) Ptr() *ID {
	return &id
}

// Equal compares an optional ID against id.
func Equal(p *ID, id ID) bool {
	return p != nil && *p == id
}
