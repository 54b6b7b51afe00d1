package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/drpeachy/tagbubbles/pkg/errors"
	"github.com/drpeachy/tagbubbles/pkg/render/sink"
)

// handleStream writes the session's frames as Server-Sent Events. The
// current frame goes out first so a new viewer never waits on the loop.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "streaming is not supported by this connection"))
		return
	}

	frames, cancel := sess.Subscribe()
	defer cancel()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-store")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if first, err := sink.RenderJSON(sess.Frame(), sink.WithJSONShowcase(sess.Showcase)); err == nil {
		writeEvent(w, "frame", first)
	}
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case data, open := <-frames:
			if !open {
				writeEvent(w, "close", []byte(`{}`))
				flusher.Flush()
				return
			}
			writeEvent(w, "frame", data)
			flusher.Flush()
		case <-heartbeat.C:
			sess.Touch()
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, data []byte) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}
