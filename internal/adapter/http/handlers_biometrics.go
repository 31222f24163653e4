package adapthttp

import (
	"errors"
	"net/http"
	"time"

	"biometrics/internal/app"
	"biometrics/internal/domain"
)

func (s *Server) currentResponse(b domain.Biometrics) map[string]any {
	return map[string]any{
		"today":      localDayString(time.Now()),
		"biometrics": b,
		"display":    app.DisplayValues(b, s.Settings.Settings()),
	}
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.currentResponse(s.Measurements.Current()))

	case http.MethodPut:
		var body struct {
			Quantity domain.QuantityType `json:"quantity"`
			Value    float64             `json:"value"`
			Unit     string              `json:"unit"`
			Source   domain.Source       `json:"source"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		var (
			b   domain.Biometrics
			err error
		)
		switch body.Source {
		case domain.SourceHealth:
			b, err = s.Measurements.UseHealth(ctx, body.Quantity)
		case domain.SourceUserEntered, "":
			b, err = s.Measurements.Record(ctx, body.Quantity, body.Value, body.Unit)
		default:
			err = errors.New(`source must be "userEntered" or "health"`)
		}
		if err != nil {
			writeError(w, statusFor(err, http.StatusBadRequest), err)
			return
		}
		writeJSON(w, http.StatusOK, s.currentResponse(b))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	start := time.Now()
	if err := s.Reconciler.Sync(r.Context(), s.Current); err != nil {
		writeError(w, statusFor(err, http.StatusInternalServerError), err)
		return
	}
	resp := s.currentResponse(s.Current.Snapshot())
	resp["ok"] = true
	resp["took"] = time.Since(start).String()
	writeJSON(w, http.StatusOK, resp)
}
