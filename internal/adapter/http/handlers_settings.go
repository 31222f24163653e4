package adapthttp

import (
	"net/http"

	"biometrics/internal/domain"
)

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.Settings.Settings())

	case http.MethodPut:
		body := s.Settings.Settings()
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := body.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.Settings.Set(body)
		if err := s.Settings.Flush(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, s.Settings.Settings())

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// settingsUnits is exposed so clients can build unit pickers.
var settingsUnits = map[string][]string{
	"energyUnit":   {domain.UnitKcal, domain.UnitKJ},
	"heightUnit":   {domain.UnitCm, domain.UnitIn},
	"bodyMassUnit": {domain.UnitKg, domain.UnitLb},
	"metricType":   {string(domain.MetricQuantity), string(domain.MetricPercent)},
}

func (s *Server) handleSettingsUnits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, settingsUnits)
}
