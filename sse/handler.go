package sse

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"path"
	"time"

	"github.com/kbukum/legalassist/errors"
	"github.com/kbukum/legalassist/logger"
)

type connectedData struct {
	ClientID     string `json:"client_id"`
	Subscription string `json:"subscription"`
}

// Serve streams the events matching pattern to w until the request context
// ends or the hub stops. It writes an error response instead when pattern
// is malformed or w cannot stream.
func Serve(hub *Hub, w http.ResponseWriter, r *http.Request, clientID, pattern string) {
	log := hub.log.WithContext(r.Context())
	if _, err := path.Match(pattern, ""); err != nil {
		writeJSONError(w, errors.ValidationError("invalid subscription pattern"))
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, errors.Internal(stderrors.New("streaming not supported")))
		return
	}

	// Streams outlive the server write timeout.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		log.Debug("Write deadline not cleared", logger.ErrorFields("sse_serve", err))
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	client := NewClient(clientID, pattern)
	hub.Register(client)
	defer hub.Unregister(client)

	hello, err := NewEvent(EventConnected, connectedData{ClientID: clientID, Subscription: pattern})
	if err != nil {
		log.Error("Connected event not encoded", logger.ErrorFields("sse_serve", err))
		return
	}
	if _, err := hello.WriteTo(w); err != nil {
		return
	}
	flusher.Flush()

	keepAlive := time.NewTicker(hub.keepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-client.Events():
			if !ok {
				return
			}
			if _, err := ev.WriteTo(w); err != nil {
				log.Debug("Client write failed", logger.ErrorFields("sse_serve", err))
				return
			}
			flusher.Flush()
		case <-keepAlive.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeJSONError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(err.HTTPStatus)
	_ = json.NewEncoder(w).Encode(err.Envelope())
}
