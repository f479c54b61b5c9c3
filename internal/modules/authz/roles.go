// README: Role set normalised once at the request edge; the engine only sees RoleSet.
package authz

import (
	"sort"
	"strings"

	"ridehub/internal/types"
)

type Role uint8

const (
	RoleDriver Role = 1 << iota
	RoleDispatcher
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleDriver:     "driver",
	RoleDispatcher: "dispatcher",
	RoleAdmin:      "admin",
}

func (r Role) String() string {
	return roleNames[r]
}

// RoleSet is a bitmask of roles.
type RoleSet uint8

func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s |= RoleSet(r)
	}
	return s
}

func (s RoleSet) Has(r Role) bool {
	return s&RoleSet(r) != 0
}

func (s RoleSet) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

func (s RoleSet) Strings() []string {
	out := make([]string, 0, len(roleNames))
	for r, name := range roleNames {
		if s.Has(r) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// ParseRoles accepts a role claim that is either a single string (optionally
// comma separated) or a list. Unknown names are dropped.
func ParseRoles(claim any) RoleSet {
	var s RoleSet
	switch v := claim.(type) {
	case string:
		for _, part := range strings.Split(v, ",") {
			s |= parseRole(part)
		}
	case []string:
		for _, part := range v {
			s |= parseRole(part)
		}
	case []any:
		for _, part := range v {
			if str, ok := part.(string); ok {
				s |= parseRole(str)
			}
		}
	}
	return s
}

func parseRole(name string) RoleSet {
	name = strings.ToLower(strings.TrimSpace(name))
	for r, n := range roleNames {
		if n == name {
			return RoleSet(r)
		}
	}
	return 0
}

// Actor is the caller of an engine operation.
type Actor struct {
	ID    types.ID
	OrgID types.ID
	Roles RoleSet
}

func (a Actor) IsDriver() bool {
	return a.Roles.Has(RoleDriver)
}
