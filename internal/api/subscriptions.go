package api

import (
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/shelfgraph/shelfgraph-server/internal/http/response"
)

// heartbeatInterval is how often a comment line keeps an idle SSE
// connection alive through proxies. Variable so tests can shorten it.
var heartbeatInterval = 30 * time.Second

// handleSubscriptions runs a GraphQL subscription operation over
// Server-Sent Events. Each pushed event is one complete execution result.
// The query is carried in the URL: ?query=...&operationName=...&variables=...
// (variables JSON-encoded). Closing the connection cancels the request
// context, which deregisters the underlying event bus subscriber.
func (s *Server) handleSubscriptions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		response.BadRequest(w, "query is required", s.logger)
		return
	}

	var variables map[string]any
	if raw := r.URL.Query().Get("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &variables); err != nil {
			response.BadRequest(w, "invalid variables", s.logger)
			return
		}
	}

	if r.Context().Err() != nil {
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	rc := http.NewResponseController(w)

	// Clear the server write timeout; the stream outlives it and each
	// push sets its own deadline.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		s.logger.Debug("failed to clear write deadline", slog.String("error", err.Error()))
	}

	if err := rc.Flush(); err != nil {
		s.logger.Error("failed to flush headers", slog.String("error", err.Error()))
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	results := graphql.Subscribe(graphql.Params{
		Schema:         s.schema,
		RequestString:  query,
		OperationName:  r.URL.Query().Get("operationName"),
		VariableValues: variables,
		Context:        ctx,
	})

	heartbeatTicker := time.NewTicker(heartbeatInterval)
	defer heartbeatTicker.Stop()

	for {
		select {
		case result, ok := <-results:
			if !ok {
				s.logger.Debug("subscription stream ended")
				return
			}
			if err := s.sendResult(w, rc, result); err != nil {
				// Client disconnect is normal, not an error condition.
				s.logger.Info("client disconnected during send")
				return
			}

		case <-heartbeatTicker.C:
			// A comment line is ignored by EventSource parsers.
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				s.logger.Info("client disconnected during heartbeat")
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
			// Heartbeats extend the deadline too, or an idle stream
			// would expire two intervals after its last data push.
			if err := rc.SetWriteDeadline(time.Now().Add(2 * heartbeatInterval)); err != nil {
				s.logger.Debug("failed to set write deadline", slog.String("error", err.Error()))
			}

		case <-ctx.Done():
			s.logger.Debug("subscription context canceled")
			return
		}
	}
}

// sendResult writes one execution result as an SSE data event.
func (s *Server) sendResult(w http.ResponseWriter, rc *http.ResponseController, result *graphql.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal subscription result: %w", err)
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}

	if err := rc.Flush(); err != nil {
		return err
	}

	// Reset the write deadline after each successful push.
	if err := rc.SetWriteDeadline(time.Now().Add(2 * heartbeatInterval)); err != nil {
		s.logger.Debug("failed to set write deadline", slog.String("error", err.Error()))
	}

	return nil
}
