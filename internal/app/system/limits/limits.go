// internal/app/system/limits/limits.go
package limits

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxFormSize bounds every urlencoded form post. The largest form is the
	// group form with a 1000-character description.
	MaxFormSize = 64 << 10 // 64 KB
)
