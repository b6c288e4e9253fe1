// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/groups").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedSubpaths are subpath patterns to reject so a redirect never
	// lands back on a form or action endpoint.
	ExcludedSubpaths []string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string
}

// SafeBackURL extracts and validates a return URL from the request.
//
// It checks the "return" query parameter, then the form value, rejects
// anything that is not a same-site path, and applies the prefix and
// excluded-subpath rules.
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}

	if ret != "" && allowed(ret, opts) {
		return ret
	}
	return opts.Fallback
}

func allowed(ret string, opts BackURLOptions) bool {
	if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
		return false
	}
	for _, excluded := range opts.ExcludedSubpaths {
		if strings.Contains(ret, excluded) {
			return false
		}
	}
	return true
}

// Common back URL configurations.
var (
	// LoginReturn is where a successful sign-in lands.
	LoginReturn = BackURLOptions{
		ExcludedSubpaths: []string{"/login", "/logout"},
		Fallback:         "/dashboard",
	}

	GroupsBackURL = BackURLOptions{
		AllowedPrefix:    "/groups",
		ExcludedSubpaths: []string{"/new", "/join", "/contributions", "/investments"},
		Fallback:         "/groups",
	}

	LoansBackURL = BackURLOptions{
		AllowedPrefix:    "/loans",
		ExcludedSubpaths: []string{"/apply", "/status"},
		Fallback:         "/loans",
	}
)
