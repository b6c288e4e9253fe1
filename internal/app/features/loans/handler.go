// internal/app/features/loans/handler.go
package loans

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

// Handler serves the loans table, the application form and status changes.
type Handler struct {
	API    *apiclient.Client
	ErrLog *uierrors.ErrorLogger
	Audit  *auditlog.Logger
	Log    *zap.Logger
	Render uierrors.RenderFunc
}

func NewHandler(api *apiclient.Client, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		API:    api,
		ErrLog: errLog,
		Audit:  audit,
		Log:    logger,
		Render: templates.Render,
	}
}

func loanID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}
