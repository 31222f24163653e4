// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"

	"biometrics/internal/adapter/events"
	"biometrics/internal/app"

	"github.com/sirupsen/logrus"
)

// EventSource is the subscription side of the notification bus.
type EventSource interface {
	SubscribeTopic(names ...string) ([]events.Message, chan interface{})
	Evict(l chan interface{})
}

// Services lists the application services the server routes to. Samples,
// Auth, Events and Metrics are optional.
type Services struct {
	Current      *app.CurrentBiometrics
	Reconciler   *app.Reconciler
	Measurements *app.MeasurementService
	Plans        *app.PlanService
	History      *app.HistoryService
	Settings     *app.SettingsStore
	Samples      *app.SampleService
	Auth         *app.AuthService
	Events       EventSource
	Metrics      http.Handler
	Log          *logrus.Entry
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	Services
	disableAuth bool
}

// New creates a Server wired to the given application services.
func New(s Services) *Server {
	if s.Log == nil {
		s.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	s.Log = s.Log.WithField("component", "http")
	return &Server{Services: s}
}

// WithoutAuth disables authentication, for tests and trusted networks.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/biometrics/current", s.handleCurrent)
	api.HandleFunc("/sync", s.handleSync)
	api.HandleFunc("/days/{day}", s.handleDay)
	api.HandleFunc("/days/{day}/plan", s.handleDayPlan)
	api.HandleFunc("/history", s.handleHistory)
	api.HandleFunc("/settings", s.handleSettings)
	api.HandleFunc("/settings/units", s.handleSettingsUnits)
	if s.Events != nil {
		api.HandleFunc("/events", s.handleEvents)
	}
	if s.Samples != nil {
		api.HandleFunc("/samples", s.handleSamples)
	}

	root := http.NewServeMux()
	root.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	root.Handle("/api/", http.StripPrefix("/api", s.authMiddleware(api)))
	if s.Metrics != nil {
		root.Handle("/metrics", s.Metrics)
	}

	return s.loggingMiddleware(withNoCache(root))
}
