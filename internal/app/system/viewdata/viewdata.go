// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
	"github.com/wakaladigital/wakala/internal/app/system/authz"
)

// DefaultSiteName is shown in the header when bootstrap has not set one.
const DefaultSiteName = "Wakala"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	UserName   string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF protection
	CSRFToken string

	// Flash is a one-line notice shown above the page body.
	Flash string
}

// flashMessages are the notices a redirect may ask for with ?flash=<code>.
// Unknown codes show nothing.
var flashMessages = map[string]string{
	"group_created":        "Savings group created.",
	"group_joined":         "You joined the group.",
	"contribution_created": "Contribution recorded.",
	"investment_created":   "Investment created.",
	"loan_applied":         "Loan application submitted.",
	"loan_updated":         "Loan status updated.",
	"signed_out":           "You have been signed out.",
}

// FlashURL appends ?flash=code (or &flash=code) to path.
func FlashURL(path, code string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "flash=" + url.QueryEscape(code)
}

var siteName atomic.Value

// Init sets the site name shown in every page header.
// Call this once at startup from bootstrap.
func Init(name string) {
	if name == "" {
		name = DefaultSiteName
	}
	siteName.Store(name)
}

// SiteName returns the configured site name.
func SiteName() string {
	if v, ok := siteName.Load().(string); ok && v != "" {
		return v
	}
	return DefaultSiteName
}

// NewBaseVM creates a fully populated BaseVM for a page.
//
// Parameters:
//   - r: the HTTP request
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	name, _, signedIn := authz.UserCtx(r)
	return BaseVM{
		SiteName:    SiteName(),
		IsLoggedIn:  signedIn,
		UserName:    name,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
		Flash:       flashMessages[r.URL.Query().Get("flash")],
	}
}
