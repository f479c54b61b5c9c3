// README: Firebase bearer-token auth; turns verified claims into the request's Actor.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ridehub/internal/infra"
	"ridehub/internal/modules/authz"
	"ridehub/internal/types"
)

const actorKey = "ridehub.actor"

// ClaimNames names the custom claims carrying roles and organisation.
type ClaimNames struct {
	Roles string
	Org   string
}

func DefaultClaimNames() ClaimNames {
	return ClaimNames{Roles: "roles", Org: "org_id"}
}

func Auth(verifier infra.TokenVerifier, names ClaimNames) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		token, err := verifier.VerifyIDToken(c.Request.Context(), raw)
		if err != nil || token == nil || token.UID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(actorKey, actorFromToken(token, names))
		c.Next()
	}
}

// actorFromToken normalises roles once. The roles claim may be a string or a
// list; a legacy single "role" claim is honoured when it is absent.
func actorFromToken(token *infra.FirebaseToken, names ClaimNames) authz.Actor {
	claim, ok := token.Claims[names.Roles]
	if !ok {
		claim = token.Claims["role"]
	}
	return authz.Actor{
		ID:    types.ID(token.UID),
		OrgID: types.ID(token.StringClaim(names.Org)),
		Roles: authz.ParseRoles(claim),
	}
}

// CallerActor returns the authenticated actor; zero when Auth did not run.
func CallerActor(c *gin.Context) authz.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(authz.Actor); ok {
			return a
		}
	}
	return authz.Actor{}
}
