package home

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/wakaladigital/wakala/internal/app/features/errors"
	"github.com/wakaladigital/wakala/internal/app/system/authz"
	"github.com/wakaladigital/wakala/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	Log    *zap.Logger
	Render uierrors.RenderFunc
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		Log:    logger,
		Render: templates.Render,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeRoot sends signed-in users to their dashboard and shows everyone else
// the landing page.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := authz.UserCtx(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := struct {
		viewdata.BaseVM
	}{
		BaseVM: viewdata.NewBaseVM(r, "Welcome", "/"),
	}

	h.Render(w, r, "home", data)
}
