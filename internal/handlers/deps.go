package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/widget-dashboard/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	SessionID       string
	ResponseHandler response.ResponseHandler
	DashboardSvc    DashboardService
}
