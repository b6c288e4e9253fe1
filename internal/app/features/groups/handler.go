// internal/app/features/groups/handler.go
package groups

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/wakaladigital/wakala/internal/app/apiclient"
	uierrors "github.com/wakaladigital/wakala/internal/app/features/errors"
	"github.com/wakaladigital/wakala/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature.
// The list, create, detail, contribution, investment, join and members
// handlers all talk to the API through it.
type Handler struct {
	API    *apiclient.Client
	ErrLog *uierrors.ErrorLogger
	Audit  *auditlog.Logger
	Log    *zap.Logger
	Render uierrors.RenderFunc
}

// NewHandler constructs a new groups Handler. audit may be nil.
func NewHandler(api *apiclient.Client, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		API:    api,
		ErrLog: errLog,
		Audit:  audit,
		Log:    logger,
		Render: templates.Render,
	}
}

// groupID parses the {id} route parameter.
func groupID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func groupPath(id int64) string {
	return "/groups/" + strconv.FormatInt(id, 10)
}
