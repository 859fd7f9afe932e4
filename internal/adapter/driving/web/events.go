package web

import (
	"fmt"
	"net/http"
	"time"
)

const eventsKeepAlive = 25 * time.Second

// Events streams catalog change notifications as server-sent events. Each
// change in the live copy produces one "catalog" event carrying the new
// version; open pages use it to refresh. Without a running feed the stream
// answers 204 so browsers stop retrying.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	feed := h.reader.Feed()
	if feed == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	rc := http.NewResponseController(w)
	// The server-wide write timeout would cut long-lived streams.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("could not clear write deadline", "error", err)
	}

	changes, release := feed.Watch()
	defer release()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	send := func(format string, args ...any) bool {
		if _, err := fmt.Fprintf(w, format, args...); err != nil {
			return false
		}
		return rc.Flush() == nil
	}

	if !send("retry: 5000\nevent: hello\ndata: %d\n\n", feed.State().Version) {
		return
	}

	ticker := time.NewTicker(eventsKeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-changes:
			if !send("event: catalog\ndata: %d\n\n", feed.State().Version) {
				return
			}
		case <-ticker.C:
			if !send(": keep-alive\n\n") {
				return
			}
		}
	}
}
