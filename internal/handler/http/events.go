package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/worklense/hrbi-backend-go/internal/handler/http/middleware"
	"github.com/worklense/hrbi-backend-go/internal/handler/http/response"
	"github.com/worklense/hrbi-backend-go/internal/pkg/jwt"
	"github.com/worklense/hrbi-backend-go/internal/pkg/sse"
)

const keepaliveInterval = 30 * time.Second

type EventsHandler interface {
	// Token issues a short-lived token for the event stream
	Token(w http.ResponseWriter, r *http.Request)
	// Stream pushes dataset events to the client
	Stream(w http.ResponseWriter, r *http.Request)
}

type eventsHandlerImpl struct {
	hub        *sse.Hub
	jwtService jwt.Service
}

// NewEventsHandler returns the SSE handler. A nil jwtService leaves the
// stream open to anyone.
func NewEventsHandler(hub *sse.Hub, jwtService jwt.Service) EventsHandler {
	return &eventsHandlerImpl{hub: hub, jwtService: jwtService}
}

// Token handles GET /events/token
func (h *eventsHandlerImpl) Token(w http.ResponseWriter, r *http.Request) {
	if h.jwtService == nil {
		response.NotFound(w, "Event stream does not require a token")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(middleware.Subject(r))
	if err != nil {
		slog.Error("Failed to generate SSE token", "error", err)
		response.InternalServerError(w, "Failed to generate token")
		return
	}

	response.Success(w, map[string]any{
		"token":      token,
		"expires_in": expiresIn,
	})
}

// Stream handles GET /events?token=
func (h *eventsHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	subject := "anonymous"
	if h.jwtService != nil {
		// EventSource cannot set headers, so the token travels in the query.
		s, err := h.jwtService.ValidateSSEToken(r.URL.Query().Get("token"))
		if err != nil {
			response.HandleError(w, err)
			return
		}
		subject = s
	}

	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(sse.TopicDataset)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"subject\":%q}\n\n", subject)
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Warn("Dropping unencodable event", "event", event.Event, "error", err)
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Event, data)
			flusher.Flush()
			if event.Event == sse.EventShutdown {
				return
			}

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
