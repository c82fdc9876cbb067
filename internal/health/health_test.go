package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sentinel-denylist/internal/denylist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticStats denylist.Stats

func (s staticStats) Stats() denylist.Stats { return denylist.Stats(s) }

func TestHealthPlain(t *testing.T) {
	srv := httptest.NewServer(NewRouter(staticStats{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var buf [2]byte
	n, _ := resp.Body.Read(buf[:])
	assert.Equal(t, "ok", string(buf[:n]))
}

func TestHealthVerbose(t *testing.T) {
	success := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	stats := staticStats{Entries: 42, LastAttempt: success.Add(time.Hour), LastSuccess: success, LastError: errors.New("status 503"), Refreshes: 2, Failures: 1}
	srv := httptest.NewServer(NewRouter(stats))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health?verbose=1")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Status   string         `json:"status"`
		Denylist denylistStatus `json:"denylist"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 42, body.Denylist.Entries)
	assert.Equal(t, "status 503", body.Denylist.LastError)
	require.NotNil(t, body.Denylist.LastSuccess)
	assert.True(t, success.Equal(*body.Denylist.LastSuccess))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := httptest.NewServer(NewRouter(nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
