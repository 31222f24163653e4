package adapthttp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"biometrics/internal/adapter/events"
)

var keepAliveInterval = 30 * time.Second

// handleEvents streams bus messages as server-sent events. names filters by
// event name; replay=true first sends the retained backlog.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var names []string
	if v := r.URL.Query().Get("names"); v != "" {
		names = strings.Split(v, ",")
	}
	backlog, l := s.Events.SubscribeTopic(names...)
	defer s.Events.Evict(l)

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if r.URL.Query().Get("replay") == "true" {
		for _, m := range backlog {
			if err := writeEvent(w, m); err != nil {
				return
			}
		}
	}
	if err := rc.Flush(); err != nil {
		s.Log.WithError(err).Warn("event stream cannot flush")
		return
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case v, ok := <-l:
			if !ok {
				return
			}
			m, ok := v.(events.Message)
			if !ok {
				continue
			}
			if err := writeEvent(w, m); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := io.WriteString(w, ": keep-alive\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeEvent(w io.Writer, m events.Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", m.ID, m.Name, data)
	return err
}
