package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"tvheap/internal/txn"
	"tvheap/internal/visibility"
)

type fakeStats struct {
	snap visibility.StatsSnapshot
}

func (f *fakeStats) Snapshot() visibility.StatsSnapshot { return f.snap }

type fakeTxns struct {
	next txn.Xid
	xip  []txn.Xid
}

func (f *fakeTxns) NextXid() txn.Xid      { return f.next }
func (f *fakeTxns) InProgress() []txn.Xid { return f.xip }

func doGet(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	rec := httptest.NewRecorder()
	s.createRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestHealth(t *testing.T) {
	s := NewServer(&fakeStats{}, &fakeTxns{}, "")

	rec, resp := doGet(t, s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, StatusOK, resp.Status)
}

func TestVisibilityStatsEndpoint(t *testing.T) {
	stats := &fakeStats{snap: visibility.StatsSnapshot{Visible: 12, UpdateOk: 3}}
	s := NewServer(stats, &fakeTxns{}, "")

	rec, resp := doGet(t, s, "/debug/visibility")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, StatusSuccess, resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	require.EqualValues(t, 12, data["visible"])
	require.EqualValues(t, 3, data["update_ok"])
}

func TestVisibilityStatsUnavailable(t *testing.T) {
	s := NewServer(nil, &fakeTxns{}, "")

	rec, resp := doGet(t, s, "/debug/visibility")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, StatusError, resp.Status)
	require.NotEmpty(t, resp.Error)
}

func TestTxnsEndpoint(t *testing.T) {
	s := NewServer(&fakeStats{}, &fakeTxns{next: 9, xip: []txn.Xid{5, 7}}, "")

	rec, resp := doGet(t, s, "/debug/txns")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, StatusSuccess, resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	require.EqualValues(t, 9, data["next_xid"])
	require.Len(t, data["in_progress"], 2)
}

func TestTxnsUnavailable(t *testing.T) {
	s := NewServer(&fakeStats{}, nil, "")

	rec, resp := doGet(t, s, "/debug/txns")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, StatusError, resp.Status)
}

func TestDefaultPort(t *testing.T) {
	s := NewServer(nil, nil, "")
	require.Equal(t, "http://localhost:"+defaultHTTPPort, s.URL)

	s = NewServer(nil, nil, "9090")
	require.Equal(t, "http://localhost:9090", s.URL)
}
