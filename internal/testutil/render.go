package testutil

import (
	"net/http"
	"sync"
)

// RenderCapture records template renders instead of executing templates.
// Assign its Render method wherever a handler takes a render function.
type RenderCapture struct {
	mu    sync.Mutex
	Name  string
	Data  any
	Count int
}

// Render stores name and data and writes the template name as the body.
func (c *RenderCapture) Render(w http.ResponseWriter, _ *http.Request, name string, data any) {
	c.mu.Lock()
	c.Name, c.Data = name, data
	c.Count++
	c.mu.Unlock()
	_, _ = w.Write([]byte(name))
}
