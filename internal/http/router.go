package router

import (
	"log"
	"net/http"

	"offboarding-dashboard/internal/http/handlers"
	"offboarding-dashboard/internal/http/middleware"
)

func New(handler *handlers.DashboardHandler, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /dashboard", handler.View)
	mux.HandleFunc("POST /tasks", handler.Create)
	mux.HandleFunc("GET /tasks", handler.List)
	mux.HandleFunc("PUT /tasks/{id}", handler.Update)
	mux.HandleFunc("POST /tasks/{id}/toggle", handler.Toggle)
	mux.HandleFunc("GET /calendar", handler.Calendar)
	mux.HandleFunc("POST /calendar/prev", handler.PrevMonth)
	mux.HandleFunc("POST /calendar/next", handler.NextMonth)
	mux.HandleFunc("GET /calendar.ics", handler.ExportICS)
	mux.HandleFunc("POST /reminders", handler.SendReminders)

	return middleware.Chain(mux,
		middleware.WithRequestID,
		middleware.WithRecover(logger),
		middleware.WithAccessLog(logger),
	)
}
