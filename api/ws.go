package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"blueprint/job"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsMessage struct {
	Type string `json:"type"`
}

// handleJobWS streams a job's events: the log so far, then live events until
// the done event, after which the connection is closed normally. A client
// may send {"type":"cancel"} to stop the job.
func (h *handler) handleJobWS(w http.ResponseWriter, r *http.Request) {
	j, ok := h.jobs.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WS upgrade error", "err", err)
		return
	}
	defer conn.Close()

	// Reader: the only consumer of client frames. Exits when the client goes
	// away or the connection is closed below.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			var msg wsMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type == "cancel" {
				j.Cancel()
			}
		}
	}()

	// Writer: this goroutine is the only one writing to conn.
	sent := 0
	for {
		events, changed := j.Since(sent)
		for _, ev := range events {
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
		sent += len(events)
		if n := len(events); n > 0 && events[n-1].Type == job.EventDone {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "job finished"))
			return
		}

		select {
		case <-changed:
		case <-gone:
			return
		}
	}
}
