package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfgraph/shelfgraph-server/internal/auth"
	"github.com/shelfgraph/shelfgraph-server/internal/bus"
	"github.com/shelfgraph/shelfgraph-server/internal/graph"
	"github.com/shelfgraph/shelfgraph-server/internal/store"
)

const testKeyHex = "707172737475767778797a7b7c7d7e7f808182838485868788898a8b8c8d8e8f"

type graphQLResponse struct {
	Data   map[string]interface{} `json:"data"`
	Errors []struct {
		Message    string                 `json:"message"`
		Extensions map[string]interface{} `json:"extensions"`
	} `json:"errors"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	eventBus := bus.New(log)
	t.Cleanup(eventBus.Close)

	tokens, err := auth.NewTokenService(testKeyHex, 12*time.Hour)
	require.NoError(t, err)

	resolver := graph.NewResolver(st, eventBus, tokens, "secret", log)
	schema, err := resolver.Schema()
	require.NoError(t, err)

	ts := httptest.NewServer(NewServer(schema, st, tokens, log))
	t.Cleanup(ts.Close)
	return ts
}

func postGraphQL(t *testing.T, ts *httptest.Server, token, query string) graphQLResponse {
	t.Helper()

	body, err := json.Marshal(map[string]any{"query": query})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/graphql", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed graphQLResponse
	require.NoError(t, json.UnmarshalRead(resp.Body, &parsed))
	return parsed
}

func login(t *testing.T, ts *httptest.Server, username string) string {
	t.Helper()

	created := postGraphQL(t, ts, "", fmt.Sprintf(
		`mutation { createUser(username: %q, favoriteGenre: "crime") { username } }`, username))
	require.Empty(t, created.Errors)

	loggedIn := postGraphQL(t, ts, "", fmt.Sprintf(
		`mutation { login(username: %q, password: "secret") { value } }`, username))
	require.Empty(t, loggedIn.Errors)

	token := loggedIn.Data["login"].(map[string]interface{})["value"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.UnmarshalRead(resp.Body, &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "healthy", envelope.Data.Status)
}

func TestGraphQLEndpoint_Query(t *testing.T) {
	ts := newTestServer(t)

	resp := postGraphQL(t, ts, "", `{ bookCount authorCount }`)
	require.Empty(t, resp.Errors)
	// JSON numbers decode as float64.
	assert.EqualValues(t, 0, resp.Data["bookCount"])
}

func TestGraphQLEndpoint_MalformedBody(t *testing.T) {
	ts := newTestServer(t)

	resp, err := ts.Client().Post(ts.URL+"/graphql", "application/json",
		strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = ts.Client().Post(ts.URL+"/graphql", "application/json",
		strings.NewReader(`{"query": ""}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBearerToken_GatesMutations(t *testing.T) {
	ts := newTestServer(t)

	addBook := `mutation { addBook(title: "Clean Code", author: "Robert Martin", published: 2008, genres: ["refactoring"]) { title } }`

	// Anonymous request reaches the resolvers and is rejected there.
	resp := postGraphQL(t, ts, "", addBook)
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, "UNAUTHENTICATED", resp.Errors[0].Extensions["code"])

	// A forged token stays anonymous rather than failing the request.
	resp = postGraphQL(t, ts, "v4.local.forged", addBook)
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, "UNAUTHENTICATED", resp.Errors[0].Extensions["code"])

	// A real token authenticates the mutation.
	token := login(t, ts, "alice")
	resp = postGraphQL(t, ts, token, addBook)
	require.Empty(t, resp.Errors)
	book := resp.Data["addBook"].(map[string]interface{})
	assert.Equal(t, "Clean Code", book["title"])
}

func TestMeOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "alice")

	resp := postGraphQL(t, ts, "", `{ me { username } }`)
	require.Empty(t, resp.Errors)
	assert.Nil(t, resp.Data["me"])

	resp = postGraphQL(t, ts, token, `{ me { username } }`)
	require.Empty(t, resp.Errors)
	me := resp.Data["me"].(map[string]interface{})
	assert.Equal(t, "alice", me["username"])
}

func TestSubscriptionsOverSSE(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "alice")

	subURL := ts.URL + "/subscriptions?query=" +
		url.QueryEscape(`subscription { bookAdded { title } }`)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, subURL, nil)
	require.NoError(t, err)

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	// Let the stream register its bus subscriber before mutating.
	time.Sleep(100 * time.Millisecond)

	mutation := postGraphQL(t, ts, token,
		`mutation { addBook(title: "Valid Title", author: "Robert Martin", published: 2008, genres: ["crime"]) { title } }`)
	require.Empty(t, mutation.Errors)

	scanner := bufio.NewScanner(resp.Body)
	var payload string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			payload = strings.TrimPrefix(line, "data: ")
			break
		}
	}
	require.NotEmpty(t, payload, "no SSE data event received")

	var event graphQLResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &event))
	book := event.Data["bookAdded"].(map[string]interface{})
	assert.Equal(t, "Valid Title", book["title"])
}

func TestSubscriptions_SurvivesIdlePeriods(t *testing.T) {
	prev := heartbeatInterval
	heartbeatInterval = 25 * time.Millisecond
	t.Cleanup(func() { heartbeatInterval = prev })

	ts := newTestServer(t)
	token := login(t, ts, "alice")

	subURL := ts.URL + "/subscriptions?query=" +
		url.QueryEscape(`subscription { bookAdded { title } }`)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, subURL, nil)
	require.NoError(t, err)

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	time.Sleep(100 * time.Millisecond)

	scanner := bufio.NewScanner(resp.Body)
	readTitle := func(book string) string {
		mutation := postGraphQL(t, ts, token, fmt.Sprintf(
			`mutation { addBook(title: %q, author: "Robert Martin", published: 2008, genres: ["crime"]) { title } }`, book))
		require.Empty(t, mutation.Errors)

		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "data: ") {
				var event graphQLResponse
				require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event))
				return event.Data["bookAdded"].(map[string]interface{})["title"].(string)
			}
		}
		t.Fatal("stream closed before a data event arrived")
		return ""
	}

	assert.Equal(t, "First Push", readTitle("First Push"))

	// Idle for several heartbeat cycles past the deadline armed by the
	// first push. Heartbeats must keep extending it or the stream dies.
	time.Sleep(8 * heartbeatInterval)

	assert.Equal(t, "Second Push", readTitle("Second Push"))
}

func TestSubscriptions_RequiresQuery(t *testing.T) {
	ts := newTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/subscriptions")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
