// internal/app/features/dashboard/handler.go
package dashboard

import (
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/wakaladigital/wakala/internal/app/apiclient"
	uierrors "github.com/wakaladigital/wakala/internal/app/features/errors"
	"github.com/wakaladigital/wakala/internal/app/portfolio"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's dashboard.
type Handler struct {
	API         *apiclient.Client
	ErrLog      *uierrors.ErrorLogger
	Log         *zap.Logger
	Concurrency int
	Render      uierrors.RenderFunc
}

// NewHandler builds a dashboard Handler. concurrency bounds the per-group
// investment fetches; zero means portfolio.DefaultMaxConcurrency.
func NewHandler(api *apiclient.Client, errLog *uierrors.ErrorLogger, concurrency int, logger *zap.Logger) *Handler {
	if concurrency <= 0 {
		concurrency = portfolio.DefaultMaxConcurrency
	}
	return &Handler{
		API:         api,
		ErrLog:      errLog,
		Log:         logger,
		Concurrency: concurrency,
		Render:      templates.Render,
	}
}
