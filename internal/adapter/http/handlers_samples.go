package adapthttp

import (
	"net/http"
	"time"

	"biometrics/internal/domain"
)

func (s *Server) handleSamples(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Type  domain.QuantityType `json:"type"`
		Value float64             `json:"value"`
		Unit  string              `json:"unit"`
		At    time.Time           `json:"at"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	at, err := s.Samples.RecordSample(body.Type, body.Value, body.Unit, body.At)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "type": body.Type, "at": at})
}
