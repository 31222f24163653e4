package adapthttp

import (
	"net/http"
	"time"

	"biometrics/internal/app"
	"biometrics/internal/domain"
)

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	date, err := pathDay(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	day, err := s.History.GetDay(r.Context(), date)
	if err != nil {
		writeError(w, statusFor(err, http.StatusInternalServerError), err)
		return
	}

	resp := map[string]any{"day": day.Key(), "biometrics": day.Biometrics, "plan": day.Plan}
	if day.Biometrics != nil {
		resp["display"] = app.DisplayValues(*day.Biometrics, s.Settings.Settings())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDayPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	date, err := pathDay(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var p domain.Plan
	if err := parseJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if p.ProteinBasis == "" {
		p.ProteinBasis = domain.ProteinNone
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	stored, err := s.Plans.AssignPlan(r.Context(), date, p, s.Current)
	if err != nil {
		writeError(w, statusFor(err, http.StatusInternalServerError), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"day": domain.DayKey(date), "plan": stored})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	days := intQuery(r, "days", 30)
	points, err := s.History.GetDaily(r.Context(), days, s.Settings.Settings())
	if err != nil {
		writeError(w, statusFor(err, http.StatusBadRequest), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"days":  len(points),
		"today": localDayString(time.Now()),
		"items": points,
	})
}
