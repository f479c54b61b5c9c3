// README: Firebase Admin SDK initialisation and ID token verifier for the auth middleware.
package infra

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"ridehub/internal/modules/authz"
	"ridehub/internal/types"
)

// FirebaseToken holds the verified token data used by downstream middleware.
type FirebaseToken struct {
	UID    string
	Claims map[string]interface{}
}

// StringClaim returns a string custom claim, or "" when absent or not a string.
func (t *FirebaseToken) StringClaim(name string) string {
	if t == nil {
		return ""
	}
	s, _ := t.Claims[name].(string)
	return s
}

// TokenVerifier verifies a raw Firebase ID token string and returns token data.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*FirebaseToken, error)
}

type firebaseVerifier struct {
	client       *auth.Client
	checkRevoked bool
}

// NewFirebaseVerifier creates a TokenVerifier using the Firebase Admin SDK.
// An empty credentialsFile falls back to application-default credentials.
// With checkRevoked set, tokens of disabled or signed-out users are refused,
// at the cost of one Auth backend call per request.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string, checkRevoked bool) (TokenVerifier, error) {
	client, err := newAuthClient(ctx, projectID, credentialsFile)
	if err != nil {
		return nil, err
	}
	return &firebaseVerifier{client: client, checkRevoked: checkRevoked}, nil
}

func newAuthClient(ctx context.Context, projectID, credentialsFile string) (*auth.Client, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase app.Auth: %w", err)
	}
	return client, nil
}

func (v *firebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*FirebaseToken, error) {
	var (
		token *auth.Token
		err   error
	)
	if v.checkRevoked {
		token, err = v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	} else {
		token, err = v.client.VerifyIDToken(ctx, idToken)
	}
	if err != nil {
		return nil, err
	}
	return &FirebaseToken{UID: token.UID, Claims: token.Claims}, nil
}

// FirebaseDirectory looks drivers up by UID and reads the same custom claims
// the auth middleware trusts.
type FirebaseDirectory struct {
	client     *auth.Client
	rolesClaim string
	orgClaim   string
}

func NewFirebaseDirectory(ctx context.Context, projectID, credentialsFile, rolesClaim, orgClaim string) (*FirebaseDirectory, error) {
	client, err := newAuthClient(ctx, projectID, credentialsFile)
	if err != nil {
		return nil, err
	}
	return &FirebaseDirectory{client: client, rolesClaim: rolesClaim, orgClaim: orgClaim}, nil
}

// IsDriverIn reports false for unknown and disabled users.
func (d *FirebaseDirectory) IsDriverIn(ctx context.Context, org, driverID types.ID) (bool, error) {
	if driverID == "" {
		return false, nil
	}
	user, err := d.client.GetUser(ctx, string(driverID))
	if auth.IsUserNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("firebase GetUser: %w", err)
	}
	if user.Disabled {
		return false, nil
	}
	return claimsDriverIn(user.CustomClaims, d.rolesClaim, d.orgClaim, org), nil
}

func claimsDriverIn(claims map[string]interface{}, rolesClaim, orgClaim string, org types.ID) bool {
	tok := &FirebaseToken{Claims: claims}
	if org == "" || types.ID(tok.StringClaim(orgClaim)) != org {
		return false
	}
	roles, ok := claims[rolesClaim]
	if !ok {
		roles = claims["role"]
	}
	return authz.ParseRoles(roles).Has(authz.RoleDriver)
}
