// internal/app/features/groups/routes.go
package groups

import (
	"github.com/go-chi/chi/v5"
	"github.com/wakaladigital/wakala/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /groups requires authentication
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// LIST
		pr.Get("/", h.ServeGroupsList)

		// CREATE
		pr.Get("/new", h.ServeNewGroup)
		pr.Post("/", h.HandleCreateGroup)

		// VIEW
		pr.Get("/{id}", h.ServeGroupView)

		// MEMBERSHIP
		pr.Post("/{id}/join", h.HandleJoinGroup)
		pr.Get("/{id}/members", h.ServeMembers)

		// CONTRIBUTIONS
		pr.Post("/{id}/contributions", h.HandleCreateContribution)

		// INVESTMENTS
		pr.Get("/{id}/investments/new", h.ServeNewInvestment)
		pr.Post("/{id}/investments", h.HandleCreateInvestment)
	})

	return r
}
