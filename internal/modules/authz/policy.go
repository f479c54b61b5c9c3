// README: Dispatch-authority policy consumed by the ride engine.
package authz

import (
	"context"

	"ridehub/internal/types"
)

// Ride is the slice of a ride the policy needs.
type Ride interface {
	Org() types.ID
}

// Policy grants dispatch authority to dispatchers and admins of the ride's
// organisation.
type Policy struct{}

func NewPolicy() *Policy {
	return &Policy{}
}

func (p *Policy) CanActOnRide(_ context.Context, actor Actor, ride Ride) bool {
	if actor.ID == "" || ride == nil {
		return false
	}
	if actor.OrgID != ride.Org() {
		return false
	}
	return actor.Roles.HasAny(RoleDispatcher, RoleAdmin)
}

// CanDispatchIn reports whether actor may create rides in org.
func (p *Policy) CanDispatchIn(_ context.Context, actor Actor, org types.ID) bool {
	return actor.ID != "" && actor.OrgID == org && actor.Roles.HasAny(RoleDispatcher, RoleAdmin)
}
