package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/graphgen/pkg/archive"
	"github.com/matzehuels/graphgen/pkg/cache"
	graphio "github.com/matzehuels/graphgen/pkg/io"
	"github.com/matzehuels/graphgen/pkg/observability"
	"github.com/matzehuels/graphgen/pkg/pipeline"
)

func newTestServer(t *testing.T, a archive.Archive) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	logger := log.New(io.Discard)
	srv := httptest.NewServer(New(pipeline.NewRunner(c, nil, a, logger), logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/v1/graphs", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := get(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[healthResponse](t, resp)
	require.Equal(t, "ok", body.Status)
}

func TestGenerateAndFetch(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := post(t, srv, `{"max_depth": 3, "new_vertices_num": 2, "formats": ["dot"]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	run := decode[runResponse](t, resp)
	require.NoError(t, uuid.Validate(run.RunID))
	require.Equal(t, 3, run.Params.MaxDepth)
	require.False(t, run.CacheHit)

	store, err := graphio.ReadJSON(strings.NewReader(string(run.Graph)))
	require.NoError(t, err)
	require.Equal(t, run.Stats.Vertices, store.VertexCount())
	require.Equal(t, run.Stats.Edges, store.EdgeCount())

	// Default format is JSON.
	resp = get(t, srv, "/v1/graphs/"+run.RunID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	fetched, err := graphio.ReadJSON(resp.Body)
	require.NoError(t, err)
	require.Equal(t, store.EdgeCount(), fetched.EdgeCount())

	resp = get(t, srv, "/v1/graphs/"+run.RunID+"?format=dot&detailed=true")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/vnd.graphviz", resp.Header.Get("Content-Type"))
	dot, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(dot), "graph G {"))
}

func TestGenerateSeededIsCached(t *testing.T) {
	srv := newTestServer(t, nil)
	body := `{"max_depth": 3, "new_vertices_num": 2, "seed": 7}`

	first := decode[runResponse](t, post(t, srv, body))
	resp := post(t, srv, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second := decode[runResponse](t, resp)
	require.True(t, second.CacheHit)
	require.Equal(t, first.RunID, second.RunID)
}

func TestGenerateWarning(t *testing.T) {
	srv := newTestServer(t, nil)
	run := decode[runResponse](t, post(t, srv, `{"max_depth": 2, "new_vertices_num": 0}`))
	require.Equal(t, "max depth couldn't be reached: generated depth 0 of 2", run.Warning)

	resp := get(t, srv, "/v1/graphs/"+run.RunID)
	require.Equal(t, run.Warning, resp.Header.Get("X-Graphgen-Warning"))
}

func TestGenerateVertexBound(t *testing.T) {
	srv := newTestServer(t, nil)

	// The largest tree the depth and width limits allow, held to a small
	// vertex bound.
	resp := post(t, srv, `{"max_depth": 32, "new_vertices_num": 16, "max_vertices": 2000}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	run := decode[runResponse](t, resp)
	require.Equal(t, 2000, run.Stats.Vertices)
	require.True(t, run.Stats.VertexLimitReached)

	// Without a bound the network one applies.
	run = decode[runResponse](t, post(t, srv, `{"max_depth": 2, "new_vertices_num": 1}`))
	require.Equal(t, pipeline.MaxVerticesLimit, run.Params.MaxVertices)

	resp = post(t, srv, `{"max_vertices": 100001}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestErrors(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name   string
		do     func() *http.Response
		status int
		code   string
	}{
		{"MalformedBody", func() *http.Response { return post(t, srv, `{"max_depth":`) }, http.StatusBadRequest, "INVALID_INPUT"},
		{"UnknownField", func() *http.Response { return post(t, srv, `{"depth": 3}`) }, http.StatusBadRequest, "INVALID_INPUT"},
		{"NegativeDepth", func() *http.Response { return post(t, srv, `{"max_depth": -1}`) }, http.StatusBadRequest, "INVALID_PARAMS"},
		{"DepthAboveLimit", func() *http.Response { return post(t, srv, `{"max_depth": 1000}`) }, http.StatusBadRequest, "INVALID_PARAMS"},
		{"BadProbability", func() *http.Response {
			return post(t, srv, `{"probabilities": {"green": 2}}`)
		}, http.StatusBadRequest, "INVALID_PARAMS"},
		{"BadFormat", func() *http.Response { return post(t, srv, `{"formats": ["png"]}`) }, http.StatusBadRequest, "INVALID_FORMAT"},
		{"InvalidRunID", func() *http.Response { return get(t, srv, "/v1/graphs/abc") }, http.StatusBadRequest, "INVALID_RUN_ID"},
		{"UnknownRun", func() *http.Response { return get(t, srv, "/v1/graphs/"+uuid.NewString()) }, http.StatusNotFound, "NOT_FOUND"},
		{"NoArchive", func() *http.Response { return get(t, srv, "/v1/graphs") }, http.StatusNotImplemented, "UNSUPPORTED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := tt.do()
			require.Equal(t, tt.status, resp.StatusCode)
			body := decode[errorResponse](t, resp)
			require.Equal(t, tt.code, body.Error)
			require.NotEmpty(t, body.Message)
		})
	}
}

func TestFetchBadFormat(t *testing.T) {
	srv := newTestServer(t, nil)
	run := decode[runResponse](t, post(t, srv, `{"max_depth": 2}`))
	resp := get(t, srv, "/v1/graphs/"+run.RunID+"?format=png")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestList(t *testing.T) {
	srv := newTestServer(t, archive.NewMemoryArchive())
	for range 3 {
		require.Equal(t, http.StatusCreated, post(t, srv, `{"max_depth": 2}`).StatusCode)
	}

	resp := get(t, srv, "/v1/graphs?limit=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[struct {
		Runs []archive.Summary `json:"runs"`
	}](t, resp)
	require.Len(t, body.Runs, 2)

	resp = get(t, srv, "/v1/graphs?limit=x")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu        sync.Mutex
	requests  []string
	responses []int
}

func (h *recordingHooks) OnRequest(_ context.Context, method, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, method+" "+path)
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	srv := newTestServer(t, nil)
	get(t, srv, "/healthz")
	get(t, srv, "/v1/graphs/nope")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	require.Equal(t, []string{"GET /healthz", "GET /v1/graphs/nope"}, hooks.requests)
	require.Equal(t, []int{http.StatusOK, http.StatusBadRequest}, hooks.responses)
}

func TestStatusFor(t *testing.T) {
	require.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
	require.Equal(t, 499, statusFor(context.Canceled))
}
