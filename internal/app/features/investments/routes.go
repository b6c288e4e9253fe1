// internal/app/features/investments/routes.go
package investments

import (
	"github.com/go-chi/chi/v5"
	"github.com/wakaladigital/wakala/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeInvestments)
	})
	return r
}
