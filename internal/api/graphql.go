package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/shelfgraph/shelfgraph-server/internal/http/response"
)

// graphQLRequest is the standard GraphQL-over-HTTP request body.
type graphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// handleGraphQL executes one query or mutation document. Execution errors
// travel inside the GraphQL result, so the HTTP status is 200 for every
// well-formed request.
func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	var req graphQLRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}
	if req.Query == "" {
		response.BadRequest(w, "query is required", s.logger)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        r.Context(),
	})

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := json.MarshalWrite(w, result); err != nil {
		s.logger.Error("Failed to encode GraphQL response", "error", err)
	}
}
