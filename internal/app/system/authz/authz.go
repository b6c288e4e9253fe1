// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/wakaladigital/wakala/internal/app/apiclient"
	"github.com/wakaladigital/wakala/internal/app/system/auth"
)

// UserCtx returns the signed-in user's display name, API user id, and a found
// flag. A session without an API token counts as signed out.
func UserCtx(r *http.Request) (name string, userID int64, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok || user.Token == "" {
		return "", 0, false
	}
	name = user.Name
	if name == "" {
		name = user.Username
	}
	return name, user.ID, true
}

// APIFor returns base scoped to the signed-in user's token. The bool is false
// when nobody is signed in.
func APIFor(r *http.Request, base *apiclient.Client) (*apiclient.Client, bool) {
	user, ok := auth.CurrentUser(r)
	if !ok || user.Token == "" || base == nil {
		return nil, false
	}
	return base.WithToken(user.Token), true
}
