package server

import (
	"encoding/json"
	"net/http"
)

// Target describes the bridge to DevTools style frontends.
type Target struct {
	Description          string `json:"description"`
	ID                   string `json:"id"`
	Title                string `json:"title"`
	Type                 string `json:"type"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	title := s.config.Title
	if title == "" {
		title = "docinspect"
	}
	writeJSON(w, []Target{{
		Description:          "document database inspector",
		ID:                   title,
		Title:                title,
		Type:                 "app",
		WebSocketDebuggerURL: "ws://" + r.Host + InspectorPath,
	}})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{
		"Browser":          "docinspect/" + s.config.Version,
		"Protocol-Version": "1.1",
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
