// internal/app/features/loans/routes.go
package loans

import (
	"github.com/go-chi/chi/v5"
	"github.com/wakaladigital/wakala/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeLoans)

		// APPLY
		pr.Get("/apply", h.ServeApply)
		pr.Post("/", h.HandleApply)

		// WORKFLOW
		pr.Post("/{id}/status", h.HandleUpdateStatus)
	})

	return r
}
