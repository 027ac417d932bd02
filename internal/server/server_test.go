package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeframe/internal/applog"
	"nodeframe/internal/node"
	"nodeframe/internal/nodelib"
	"nodeframe/internal/server"
	"nodeframe/internal/session"
	"nodeframe/internal/store"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nodeframe.db")
	st, err := store.Open(context.Background(), store.Options{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	registry := node.NewRegistry()
	nodelib.RegisterAll(registry)
	sessions := session.NewManager(time.Minute)
	logger := applog.New("error")
	return server.New(st, registry, sessions, logger)
}

func TestCreateAndFetchGraph(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"id": "g1", "slug": "my-graph"})
	req := httptest.NewRequest(http.MethodPost, "/api/graphs", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	graphDoc := `{"format":"graph","nodes":[{"id":"n1","type":"int_value","properties":{"value":"5"}}],"connections":[]}`
	putReq := httptest.NewRequest(http.MethodPut, "/api/graphs/g1", bytes.NewReader(
		mustJSON(t, map[string]json.RawMessage{"graph": json.RawMessage(graphDoc)})))
	putRec := httptest.NewRecorder()
	srv.ServeHTTP(putRec, putReq)
	require.Equal(t, http.StatusOK, putRec.Code)

	getReq := httptest.NewRequest(http.MethodGet, "/api/graphs/g1", nil)
	getRec := httptest.NewRecorder()
	srv.ServeHTTP(getRec, getReq)
	require.Equal(t, http.StatusOK, getRec.Code)
	assert.Contains(t, getRec.Body.String(), "int_value")
}

func TestGetUnknownGraphReturns404(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/graphs/missing", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExecuteGraphReturnsResults(t *testing.T) {
	srv := newTestServer(t)

	createBody, _ := json.Marshal(map[string]string{"id": "g1", "slug": "my-graph"})
	createReq := httptest.NewRequest(http.MethodPost, "/api/graphs", bytes.NewReader(createBody))
	srv.ServeHTTP(httptest.NewRecorder(), createReq)

	graphDoc := `{"format":"graph","nodes":[{"id":"n1","type":"int_value","properties":{"value":"5"}}],"connections":[]}`
	putReq := httptest.NewRequest(http.MethodPut, "/api/graphs/g1", bytes.NewReader(
		mustJSON(t, map[string]json.RawMessage{"graph": json.RawMessage(graphDoc)})))
	srv.ServeHTTP(httptest.NewRecorder(), putReq)

	execReq := httptest.NewRequest(http.MethodPost, "/api/graphs/g1/execute", nil)
	execRec := httptest.NewRecorder()
	srv.ServeHTTP(execRec, execReq)

	require.Equal(t, http.StatusOK, execRec.Code)
	assert.Contains(t, execRec.Body.String(), "\"n1\"")
}

func TestCreateSession(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"id": "s1", "graph_id": "g1"})
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
